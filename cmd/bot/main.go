// Waifu Bot - Telegram collectible character game
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/scheduler"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/web"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

var (
	configPath = flag.String("config", "config.json", "配置文件路径")
	debug      = flag.Bool("debug", false, "调试模式")
)

func main() {
	flag.Parse()

	// 初始化日志
	logger.Init(*debug)
	logger.Info().Msg("🌸 Waifu Bot starting...")

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	// 保存配置文件路径，用于热重载
	config.SetConfigPath(*configPath)
	logger.Info().Msg("✅ config loaded")

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal().Err(err).Msg("failed to init database")
	}
	defer database.Close()
	logger.Info().Msg("✅ database connected")

	// 初始化定时任务调度器
	sched := scheduler.New(cfg)
	sched.Start()
	defer sched.Stop()
	logger.Info().Msg("✅ scheduler started")

	// 初始化 Web API 服务
	webServer := web.New(&cfg.API)
	go func() {
		if err := webServer.Start(); err != nil {
			logger.Error().Err(err).Msg("web api failed")
		}
	}()
	defer webServer.Stop()

	// 初始化 Telegram Bot
	tgBot, err := bot.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init telegram bot")
	}
	sched.SetBot(tgBot.Bot)
	logger.Info().Str("bot", cfg.BotName).Msg("✅ telegram bot ready")

	// 监听系统信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go tgBot.Run()

	logger.Info().Msg("🚀 Waifu Bot is up!")

	<-quit

	logger.Info().Msg("shutting down...")
	tgBot.Stop()
	logger.Info().Msg("👋 bye")
}
