package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

var ErrWeeklyDisabled = errors.New("weekly rewards are disabled")

// Notifier 奖励私信回调，由 bot 层注入
type Notifier func(userID int64, text string)

// WeeklyService 周榜快照与奖励服务
//
// 每周一 00:00 UTC 快照上一周的捕获榜，前三名连续在榜满
// 规定周数后发放定制角色。快照幂等，重跑不会重复发奖。
type WeeklyService struct {
	playerRepo *repository.PlayerRepository
	rankRepo   *repository.RankRepository
	awardRepo  *repository.AwardRepository
	generator  *GeneratorService
	cfg        *config.Config
	notify     Notifier
}

// NewWeeklyService 创建周榜服务
func NewWeeklyService() *WeeklyService {
	return &WeeklyService{
		playerRepo: repository.NewPlayerRepository(),
		rankRepo:   repository.NewRankRepository(),
		awardRepo:  repository.NewAwardRepository(),
		generator:  NewGeneratorService(),
		cfg:        config.Get(),
	}
}

// SetNotifier 注入私信回调
func (s *WeeklyService) SetNotifier(n Notifier) {
	s.notify = n
}

// SnapshotReport 一次周任务的执行报告
type SnapshotReport struct {
	Week      string
	Snapshot  int
	Awarded   []AwardedEntry
	Skipped   int // 已发过、连续周数不足等
}

// AwardedEntry 获奖条目
type AwardedEntry struct {
	UserID    int64
	Name      string
	Rank      int
	Character string
}

// RunSnapshot 执行一次周榜快照与发奖
//
// now 通常是任务触发时刻，快照归属于刚结束的那一周。
func (s *WeeklyService) RunSnapshot(now time.Time) (*SnapshotReport, error) {
	if !s.cfg.Weekly.Enabled {
		return nil, ErrWeeklyDisabled
	}

	week := utils.PrevWeekID(now)
	report := &SnapshotReport{Week: week}

	players, err := s.playerRepo.GetTopByCatches(s.cfg.Weekly.SnapshotSize)
	if err != nil {
		return nil, err
	}

	// 重跑时本周快照已落库，只复查发奖
	snapshotted, err := s.rankRepo.HasWeek(week)
	if err != nil {
		return nil, err
	}
	if !snapshotted {
		for i, p := range players {
			entry := &models.WeeklyRank{
				UserID:  p.UserID,
				Week:    week,
				Rank:    i + 1,
				Catches: p.Catches,
			}
			if err := s.rankRepo.InsertIgnore(entry); err != nil {
				logger.Error().Err(err).Int64("user_id", p.UserID).
					Msg("weekly snapshot insert failed")
				continue
			}
			report.Snapshot++
		}
	}

	for i, p := range players {
		rank := i + 1
		if rank > s.cfg.Weekly.TopN {
			break
		}
		streak, err := s.streakWeeks(p.UserID, week)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", p.UserID).
				Msg("streak check failed")
			continue
		}
		if streak < s.cfg.Weekly.WeeksRequired {
			report.Skipped++
			continue
		}

		result, err := s.generator.Generate(&GenerateRequest{
			UserID:    p.UserID,
			FirstName: p.FirstName,
			Kind:      models.AwardKindLeaderboard,
			Period:    week,
			Rank:      rank,
		})
		if err != nil {
			if errors.Is(err, ErrAlreadyAwarded) {
				report.Skipped++
				continue
			}
			logger.Error().Err(err).Int64("user_id", p.UserID).
				Msg("weekly award generation failed")
			continue
		}

		report.Awarded = append(report.Awarded, AwardedEntry{
			UserID:    p.UserID,
			Name:      p.DisplayName(),
			Rank:      rank,
			Character: result.Character.Name,
		})

		if s.notify != nil {
			s.notify(p.UserID, fmt.Sprintf(
				"🏆 Weekly Champion Reward!\n\nYou placed %s on the weekly leaderboard and earned an exclusive character:\n\n⭐ %s\n🌍 %s\n\nShe is bound to you forever. Congratulations!",
				utils.Ordinal(rank), result.Character.Name, result.Character.Anime))
		}
	}

	logger.Info().
		Str("week", week).
		Int("snapshot", report.Snapshot).
		Int("awarded", len(report.Awarded)).
		Msg("weekly snapshot completed")

	return report, nil
}

// rankLookup 按 (userID, week) 查快照条目，查无返回 gorm.ErrRecordNotFound
type rankLookup func(userID int64, week string) (*models.WeeklyRank, error)

// walkStreak 从 week 起逐周回溯，统计连续处于前 topN 的周数
// 某周无快照或名次跌出都就此打住，断档意味着连续计数归零重来
func walkStreak(lookup rankLookup, topN int, userID int64, week string) (int, error) {
	streak := 0
	cursor, err := parseWeekStart(week)
	if err != nil {
		return 0, err
	}
	for {
		w := utils.WeekID(cursor)
		entry, err := lookup(userID, w)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return streak, nil
			}
			return streak, err
		}
		if !entry.IsTop(topN) {
			return streak, nil
		}
		streak++
		cursor = cursor.AddDate(0, 0, -7)
	}
}

// streakWeeks 统计玩家以 week 结尾的连续前 N 周数
func (s *WeeklyService) streakWeeks(userID int64, week string) (int, error) {
	return walkStreak(s.rankRepo.GetUserWeek, s.cfg.Weekly.TopN, userID, week)
}

// parseWeekStart 把周号还原为该 ISO 周内的某一天
func parseWeekStart(week string) (time.Time, error) {
	var year, wk int
	if _, err := fmt.Sscanf(week, "%d-W%d", &year, &wk); err != nil {
		return time.Time{}, fmt.Errorf("bad week id %q: %w", week, err)
	}
	// 1 月 4 日总在第一周，从它所在周一步进
	t := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t.AddDate(0, 0, (wk-1)*7), nil
}

// CheckMilestones 检查玩家金币里程碑，达标则发定制角色
func CheckMilestones(playerRepo *repository.PlayerRepository, generator *GeneratorService, notify Notifier, userID int64) {
	cfg := config.Get()
	player, err := playerRepo.GetByID(userID)
	if err != nil {
		return
	}
	for level, threshold := range cfg.Economy.Milestones {
		if level < player.MilestoneLevel || player.Coins < int64(threshold) {
			continue
		}
		period := fmt.Sprintf("%d", threshold)
		result, err := generator.Generate(&GenerateRequest{
			UserID:    userID,
			FirstName: player.FirstName,
			Kind:      models.AwardKindMilestone,
			Period:    period,
		})
		if err != nil {
			if !errors.Is(err, ErrAlreadyAwarded) {
				logger.Error().Err(err).Int64("user_id", userID).
					Msg("milestone award failed")
			}
			continue
		}
		_ = playerRepo.SetMilestoneLevel(userID, level+1)
		if notify != nil {
			notify(userID, fmt.Sprintf(
				"💰 Milestone reached: %d coins!\n\nYour treasury earned you an exclusive character:\n\n⭐ %s\n🌍 %s",
				threshold, result.Character.Name, result.Character.Anime))
		}
	}
}
