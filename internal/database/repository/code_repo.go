package repository

import (
	"time"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
)

// CodeRepository 兑换码仓库
type CodeRepository struct {
	db *gorm.DB
}

// NewCodeRepository 创建兑换码仓库
func NewCodeRepository() *CodeRepository {
	return &CodeRepository{db: database.GetDB()}
}

// Create 创建兑换码
func (r *CodeRepository) Create(code *models.RedeemCode) error {
	return r.db.Create(code).Error
}

// GetByCode 根据码值获取兑换码
func (r *CodeRepository) GetByCode(code string) (*models.RedeemCode, error) {
	var c models.RedeemCode
	err := r.db.Where("code = ?", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ConsumeUse 原子消耗一次使用次数
//
// 次数打满或已过期都会让条件失配，RowsAffected 为 0 即消耗失败。
func (r *CodeRepository) ConsumeUse(code string, now time.Time) (bool, error) {
	result := r.db.Model(&models.RedeemCode{}).
		Where("code = ? AND used_count < max_uses AND (expires_at IS NULL OR expires_at > ?)", code, now).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HasRedeemed 玩家是否已兑换过该码
func (r *CodeRepository) HasRedeemed(code string, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.RedeemLog{}).
		Where("code = ? AND user_id = ?", code, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateLog 记录一次兑换
func (r *CodeRepository) CreateLog(code string, userID int64) error {
	log := models.RedeemLog{
		Code:   code,
		UserID: userID,
	}
	return r.db.Create(&log).Error
}

// List 列出所有兑换码，新的在前
func (r *CodeRepository) List() ([]models.RedeemCode, error) {
	var codes []models.RedeemCode
	err := r.db.Order("created_at DESC").Find(&codes).Error
	return codes, err
}

// Delete 删除兑换码
func (r *CodeRepository) Delete(code string) (bool, error) {
	result := r.db.Where("code = ?", code).Delete(&models.RedeemCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
