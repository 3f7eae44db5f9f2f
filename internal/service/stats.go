package service

import (
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
)

// StatsService 统计服务，供管理面板与 Web API 使用
type StatsService struct {
	playerRepo *repository.PlayerRepository
	charRepo   *repository.CharacterRepository
	awardRepo  *repository.AwardRepository
}

// NewStatsService 创建统计服务
func NewStatsService() *StatsService {
	return &StatsService{
		playerRepo: repository.NewPlayerRepository(),
		charRepo:   repository.NewCharacterRepository(),
		awardRepo:  repository.NewAwardRepository(),
	}
}

// BotStats 全局统计
type BotStats struct {
	Players      int64 `json:"players"`
	TotalCatches int64 `json:"total_catches"`
	Characters   int64 `json:"characters"`
	CustomChars  int64 `json:"custom_characters"`
	WeeklyAwards int64 `json:"weekly_awards"`
}

// GetBotStats 汇总全局统计
func (s *StatsService) GetBotStats() (*BotStats, error) {
	players, catches, err := s.playerRepo.CountStats()
	if err != nil {
		return nil, err
	}
	normal, custom, err := s.charRepo.Count()
	if err != nil {
		return nil, err
	}
	weeklyAwards, err := s.awardRepo.CountByKind(models.AwardKindLeaderboard)
	if err != nil {
		return nil, err
	}
	return &BotStats{
		Players:      players,
		TotalCatches: catches,
		Characters:   normal,
		CustomChars:  custom,
		WeeklyAwards: weeklyAwards,
	}, nil
}
