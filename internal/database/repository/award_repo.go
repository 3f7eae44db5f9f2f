package repository

import (
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
)

// AwardRepository 定制奖励仓库
type AwardRepository struct {
	db *gorm.DB
}

// NewAwardRepository 创建奖励仓库
func NewAwardRepository() *AwardRepository {
	return &AwardRepository{db: database.GetDB()}
}

// Create 记录一次定制奖励发放
func (r *AwardRepository) Create(award *models.CustomAward) error {
	return r.db.Create(award).Error
}

// HasAwardForPeriod 玩家在某周期内是否已领过同类奖励
// 周期键结构化去重，周榜用周号，里程碑用档位
func (r *AwardRepository) HasAwardForPeriod(userID int64, kind models.AwardKind, period string) (bool, error) {
	var count int64
	err := r.db.Model(&models.CustomAward{}).
		Where("user_id = ? AND kind = ? AND period = ?", userID, kind, period).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 玩家获得过的所有定制奖励
func (r *AwardRepository) ListByUser(userID int64) ([]models.CustomAward, error) {
	var awards []models.CustomAward
	err := r.db.Where("user_id = ?", userID).Order("awarded_at DESC").Find(&awards).Error
	return awards, err
}

// ListAll 全部奖励记录，新的在前
func (r *AwardRepository) ListAll(limit int) ([]models.CustomAward, error) {
	var awards []models.CustomAward
	err := r.db.Order("awarded_at DESC").Limit(limit).Find(&awards).Error
	return awards, err
}

// CountByKind 按类型统计发放次数
func (r *AwardRepository) CountByKind(kind models.AwardKind) (int64, error) {
	var count int64
	err := r.db.Model(&models.CustomAward{}).Where("kind = ?", kind).Count(&count).Error
	return count, err
}
