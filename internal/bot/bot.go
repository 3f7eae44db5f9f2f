// Package bot Telegram Bot 核心
package bot

import (
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/handlers"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/middleware"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// Bot Telegram Bot 实例
type Bot struct {
	*tele.Bot
	cfg *config.Config
}

var instance *Bot

// New 创建新的 Bot 实例
func New(cfg *config.Config) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error().Err(err).Msg("bot error")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		Bot: b,
		cfg: cfg,
	}

	bot.registerMiddleware()
	bot.registerHandlers()
	bot.setCommands()

	instance = bot
	return bot, nil
}

// Get 获取 Bot 单例
func Get() *Bot {
	return instance
}

// registerMiddleware 注册中间件
func (b *Bot) registerMiddleware() {
	b.Use(middleware.Logger())
	b.Use(middleware.Recover())
}

// registerHandlers 注册所有处理器
func (b *Bot) registerHandlers() {
	// 用户命令
	b.Handle("/start", handlers.Start)
	b.Handle("/help", handlers.Help)
	b.Handle("/cancel", handlers.Cancel)
	b.Handle("/profile", handlers.Profile)
	b.Handle("/badges", handlers.Badges)
	b.Handle("/collection", handlers.Collection)
	b.Handle("/daily", handlers.Daily)
	b.Handle("/balance", handlers.Balance)
	b.Handle("/coinflip", handlers.Coinflip)
	b.Handle("/burn", handlers.Burn)
	b.Handle("/gift", handlers.Gift)
	b.Handle("/view", handlers.View)
	b.Handle("/top", handlers.Top)
	b.Handle("/weekly", handlers.Weekly)

	// 兑换码私聊兑，群里发码等于送人
	redeemGroup := b.Group()
	redeemGroup.Use(middleware.PrivateOnly())
	redeemGroup.Handle("/redeem", handlers.Redeem)

	// 群内抢角色，限流挡住狂刷
	catchGroup := b.Group()
	catchGroup.Use(middleware.GroupOnly())
	catchGroup.Use(middleware.RateLimit(30))
	catchGroup.Handle("/catch", handlers.Catch)

	// 交易和决斗都要回复目标，自然只在群里
	tradeGroup := b.Group()
	tradeGroup.Use(middleware.GroupOnly())
	tradeGroup.Handle("/trade", handlers.Trade)
	tradeGroup.Handle("/duel", handlers.Duel)

	// 管理员命令
	adminGroup := b.Group()
	adminGroup.Use(middleware.AdminOnly())
	adminGroup.Handle("/_usage", handlers.Usage)
	adminGroup.Handle("/addchar", handlers.AddChar)
	adminGroup.Handle("/delchar", handlers.DelChar)
	adminGroup.Handle("/editchar", handlers.EditChar)
	adminGroup.Handle("/addimage", handlers.AddImage)
	adminGroup.Handle("/chars", handlers.Chars)
	adminGroup.Handle("/searchchar", handlers.SearchChar)
	adminGroup.Handle("/givecoins", handlers.GiveCoins)
	adminGroup.Handle("/givechar", handlers.GiveChar)
	adminGroup.Handle("/spawn", handlers.ForceSpawn)
	adminGroup.Handle("/broadcast", handlers.Broadcast)
	adminGroup.Handle("/ban", handlers.Ban)
	adminGroup.Handle("/unban", handlers.Unban)
	adminGroup.Handle("/award", handlers.Award)
	adminGroup.Handle("/awards", handlers.Awards)
	adminGroup.Handle("/gencode", handlers.GenCode)
	adminGroup.Handle("/codes", handlers.Codes)
	adminGroup.Handle("/delcode", handlers.DelCode)
	adminGroup.Handle("/runweekly", handlers.RunWeekly)
	adminGroup.Handle("/backup", handlers.Backup)
	adminGroup.Handle("/restore", handlers.Restore)
	adminGroup.Handle("/botstats", handlers.BotStats)
	adminGroup.Handle(tele.OnPhoto, handlers.OnAdminPhoto)

	// 回调查询，抢按钮的并发大，防刷放在最前
	callbackGroup := b.Group()
	callbackGroup.Use(middleware.AntiFlood(3))
	callbackGroup.Handle(tele.OnCallback, handlers.OnCallback)

	// 群消息驱动刷新
	b.Handle(tele.OnText, handlers.OnGroupText)
}

// setCommands 设置命令列表
func (b *Bot) setCommands() {
	userCmds := []tele.Command{
		{Text: "start", Description: "Profile panel (DM)"},
		{Text: "help", Description: "Command list"},
		{Text: "catch", Description: "Catch the spawned character"},
		{Text: "collection", Description: "Browse your characters"},
		{Text: "profile", Description: "Your stats"},
		{Text: "badges", Description: "Your exclusive characters"},
		{Text: "daily", Description: "Claim daily coins"},
		{Text: "balance", Description: "Check your coins"},
		{Text: "coinflip", Description: "Double or nothing"},
		{Text: "burn", Description: "Burn a dupe for coins"},
		{Text: "gift", Description: "Gift coins (reply)"},
		{Text: "trade", Description: "Propose a swap (reply)"},
		{Text: "duel", Description: "Duel for coins (reply)"},
		{Text: "view", Description: "Character details"},
		{Text: "redeem", Description: "Redeem a code"},
		{Text: "top", Description: "Catch leaderboard"},
		{Text: "weekly", Description: "Last week's snapshot"},
	}

	adminCmds := append(userCmds, []tele.Command{
		{Text: "addchar", Description: "Add a character [admin]"},
		{Text: "delchar", Description: "Delete a character [admin]"},
		{Text: "editchar", Description: "Edit a character [admin]"},
		{Text: "addimage", Description: "Set a character image [admin]"},
		{Text: "chars", Description: "Browse the catalog [admin]"},
		{Text: "searchchar", Description: "Search the catalog [admin]"},
		{Text: "givecoins", Description: "Adjust coins [admin]"},
		{Text: "givechar", Description: "Grant a catalog character [admin]"},
		{Text: "spawn", Description: "Force a spawn [admin]"},
		{Text: "broadcast", Description: "DM all players [admin]"},
		{Text: "ban", Description: "Ban a player [admin]"},
		{Text: "unban", Description: "Unban a player [admin]"},
		{Text: "award", Description: "Grant a custom character [admin]"},
		{Text: "awards", Description: "Recent award log [admin]"},
		{Text: "gencode", Description: "Create a redeem code [admin]"},
		{Text: "codes", Description: "List redeem codes [admin]"},
		{Text: "delcode", Description: "Delete a redeem code [admin]"},
		{Text: "runweekly", Description: "Run weekly snapshot [admin]"},
		{Text: "backup", Description: "Backup the database [admin]"},
		{Text: "restore", Description: "Restore from a backup [admin]"},
		{Text: "botstats", Description: "Global stats [admin]"},
	}...)

	b.SetCommands(userCmds)

	// 管理员看到完整命令列表
	for _, adminID := range b.cfg.Admins {
		b.SetCommands(adminCmds, tele.CommandScope{
			Type:   tele.CommandScopeChat,
			ChatID: adminID,
		})
	}
}

// Run 运行 Bot
func (b *Bot) Run() {
	logger.Info().Str("bot", b.cfg.BotName).Msg("bot starting")
	b.Start()
}

// Stop 停止 Bot
func (b *Bot) Stop() {
	logger.Info().Msg("bot stopping")
	b.Bot.Stop()
}
