// Package models 数据模型 - 交易
package models

import (
	"time"
)

// 交易状态
const (
	TradeStatusPending   = "pending"
	TradeStatusAccepted  = "accepted"
	TradeStatusDeclined  = "declined"
	TradeStatusCancelled = "cancelled"
)

// Trade 交易表
type Trade struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         string    `gorm:"column:uuid;size:36;uniqueIndex" json:"uuid"`
	FromUser     int64     `gorm:"column:from_user;not null;index" json:"from_user"`
	ToUser       int64     `gorm:"column:to_user;not null;index" json:"to_user"`
	FromCharID   uint      `gorm:"column:from_char_id;not null" json:"from_char_id"`
	ToCharID     *uint     `gorm:"column:to_char_id" json:"to_char_id,omitempty"` // 对方以角色回应，可为空（纯赠予式交易）
	CoinsOffered int64     `gorm:"column:coins_offered;default:0" json:"coins_offered"`
	Status       string    `gorm:"column:status;size:20;default:'pending'" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName 表名
func (Trade) TableName() string {
	return "trades"
}

// IsPending 是否待处理
func (t *Trade) IsPending() bool {
	return t.Status == TradeStatusPending
}
