// Package scheduler 定时任务调度
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron *gocron.Scheduler
	cfg  *config.Config
	bot  *tele.Bot
}

var instance *Scheduler

// New 创建调度器，周任务按 UTC 对齐
func New(cfg *config.Config) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SetMaxConcurrentJobs(3, gocron.RescheduleMode)

	instance = &Scheduler{
		cron: s,
		cfg:  cfg,
	}
	return instance
}

// Get 获取调度器实例
func Get() *Scheduler {
	return instance
}

// SetBot 设置 Bot 实例（用于发送奖励私信）
func (s *Scheduler) SetBot(bot *tele.Bot) {
	s.bot = bot
}

// Start 启动调度器
func (s *Scheduler) Start() {
	logger.Info().Msg("starting scheduler")
	s.registerJobs()
	s.cron.StartAsync()
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	logger.Info().Msg("stopping scheduler")
	s.cron.Stop()
}

// registerJobs 注册所有定时任务
func (s *Scheduler) registerJobs() {
	// 周榜快照与发奖 - 每周一 00:00 UTC
	if s.cfg.Weekly.Enabled {
		s.cron.Every(1).Week().Monday().At("00:00").Do(s.runWeeklySnapshot)
		logger.Info().Msg("registered: weekly snapshot (Monday 00:00 UTC)")
	}

	// 数据库备份 - 每天 03:00 UTC
	if s.cfg.Backup.Enabled {
		s.cron.Every(1).Day().At("03:00").Do(s.backupDatabase)
		logger.Info().Msg("registered: database backup (daily 03:00 UTC)")
	}

	// 残留刷新清扫 - 每 10 分钟
	s.cron.Every(10).Minutes().Do(s.sweepStaleSpawns)
	logger.Info().Msg("registered: stale spawn sweep (every 10m)")
}

// runWeeklySnapshot 周榜快照与发奖
func (s *Scheduler) runWeeklySnapshot() {
	logger.Info().Msg("running scheduled job: weekly snapshot")

	weeklySvc := service.NewWeeklyService()
	weeklySvc.SetNotifier(s.notifyUser)

	report, err := weeklySvc.RunSnapshot(time.Now().UTC())
	if err != nil {
		logger.Error().Err(err).Msg("weekly snapshot failed")
		return
	}

	// 向管理员发执行报告
	if s.bot != nil && len(s.cfg.Admins) > 0 {
		text := fmt.Sprintf(
			"📊 *Weekly Snapshot Report*\n\nWeek: %s\nSnapshot entries: %d\nAwards granted: %d\nSkipped: %d",
			report.Week, report.Snapshot, len(report.Awarded), report.Skipped)
		chat := &tele.Chat{ID: s.cfg.Admins[0]}
		s.bot.Send(chat, text, tele.ModeMarkdown)
	}
}

// backupDatabase 备份数据库
func (s *Scheduler) backupDatabase() {
	logger.Info().Msg("running scheduled job: database backup")

	backupSvc := service.NewBackupService()
	result, err := backupSvc.Backup(true)
	if err != nil {
		logger.Error().Err(err).Msg("scheduled backup failed")
		return
	}

	logger.Info().
		Str("file", result.Filename).
		Int64("size", result.Size).
		Int("records", result.Records).
		Msg("scheduled backup completed")

	if err := backupSvc.Cleanup(); err != nil {
		logger.Warn().Err(err).Msg("backup cleanup failed")
	}
}

// sweepStaleSpawns 清理残留刷新
func (s *Scheduler) sweepStaleSpawns() {
	service.NewSpawnService().SweepStale()
}

// notifyUser 尽力私信玩家，玩家未曾私聊过 Bot 时会失败，忽略
func (s *Scheduler) notifyUser(userID int64, text string) {
	if s.bot == nil {
		return
	}
	chat := &tele.Chat{ID: userID}
	if _, err := s.bot.Send(chat, text); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("reward dm failed")
	}
}

// RunNow 立即执行指定任务（管理员调试用）
func (s *Scheduler) RunNow(taskName string) error {
	switch taskName {
	case "weekly":
		s.runWeeklySnapshot()
	case "backup":
		s.backupDatabase()
	case "sweep":
		s.sweepStaleSpawns()
	default:
		return fmt.Errorf("unknown task: %s", taskName)
	}
	return nil
}
