package repository

import (
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RankRepository 周榜快照仓库
type RankRepository struct {
	db *gorm.DB
}

// NewRankRepository 创建周榜仓库
func NewRankRepository() *RankRepository {
	return &RankRepository{db: database.GetDB()}
}

// InsertIgnore 写入快照，(user, week) 已存在时跳过
// 周任务幂等重跑靠这里
func (r *RankRepository) InsertIgnore(rank *models.WeeklyRank) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rank).Error
}

// GetWeek 取某周的完整快照
func (r *RankRepository) GetWeek(week string) ([]models.WeeklyRank, error) {
	var ranks []models.WeeklyRank
	err := r.db.Where("week = ?", week).Order("rank").Find(&ranks).Error
	return ranks, err
}

// GetUserWeeks 取玩家按周倒序的历史名次
func (r *RankRepository) GetUserWeeks(userID int64, limit int) ([]models.WeeklyRank, error) {
	var ranks []models.WeeklyRank
	err := r.db.
		Where("user_id = ?", userID).
		Order("week DESC").
		Limit(limit).
		Find(&ranks).Error
	return ranks, err
}

// GetUserWeek 取玩家在指定周的名次
func (r *RankRepository) GetUserWeek(userID int64, week string) (*models.WeeklyRank, error) {
	var rank models.WeeklyRank
	err := r.db.Where("user_id = ? AND week = ?", userID, week).First(&rank).Error
	if err != nil {
		return nil, err
	}
	return &rank, nil
}

// HasWeek 某周是否已有快照
func (r *RankRepository) HasWeek(week string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WeeklyRank{}).Where("week = ?", week).Count(&count).Error
	return count > 0, err
}
