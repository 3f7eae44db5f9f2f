package repository

import (
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
)

// TradeRepository 交易仓库
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository 创建交易仓库
func NewTradeRepository() *TradeRepository {
	return &TradeRepository{db: database.GetDB()}
}

// Create 创建交易
func (r *TradeRepository) Create(trade *models.Trade) error {
	return r.db.Create(trade).Error
}

// GetByUUID 根据 UUID 获取交易
func (r *TradeRepository) GetByUUID(uuid string) (*models.Trade, error) {
	var trade models.Trade
	err := r.db.Where("uuid = ?", uuid).First(&trade).Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// SettleIfPending 原子落定交易状态
// 只有 pending 状态能被改写，重复点击按钮只有第一次生效
func (r *TradeRepository) SettleIfPending(uuid string, status string) (bool, error) {
	result := r.db.Model(&models.Trade{}).
		Where("uuid = ? AND status = ?", uuid, models.TradeStatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetPendingFrom 玩家发起的待处理交易
func (r *TradeRepository) GetPendingFrom(userID int64) ([]models.Trade, error) {
	var trades []models.Trade
	err := r.db.
		Where("from_user = ? AND status = ?", userID, models.TradeStatusPending).
		Find(&trades).Error
	return trades, err
}

// CancelAllPending 取消玩家的全部待处理交易
func (r *TradeRepository) CancelAllPending(userID int64) (int64, error) {
	result := r.db.Model(&models.Trade{}).
		Where("from_user = ? AND status = ?", userID, models.TradeStatusPending).
		Update("status", models.TradeStatusCancelled)
	return result.RowsAffected, result.Error
}
