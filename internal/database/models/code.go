// Package models 数据模型 - 兑换码
package models

import (
	"time"
)

// RedeemCode 兑换码表
type RedeemCode struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string     `gorm:"column:code;size:50;not null;uniqueIndex" json:"code"`
	Coins     int64      `gorm:"column:coins;default:0" json:"coins"`
	CharID    *uint      `gorm:"column:char_id" json:"char_id,omitempty"` // 附赠角色
	MaxUses   int        `gorm:"column:max_uses;default:1" json:"max_uses"`
	UsedCount int        `gorm:"column:used_count;default:0" json:"used_count"`
	CreatedBy int64      `gorm:"column:created_by" json:"created_by"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName 表名
func (RedeemCode) TableName() string {
	return "redeem_codes"
}

// IsExpired 是否已过期
func (c *RedeemCode) IsExpired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(*c.ExpiresAt)
}

// IsExhausted 使用次数是否已耗尽
func (c *RedeemCode) IsExhausted() bool {
	return c.UsedCount >= c.MaxUses
}

// GivesCharacter 是否附赠角色
func (c *RedeemCode) GivesCharacter() bool {
	return c.CharID != nil
}

// RedeemLog 兑换记录表
type RedeemLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string    `gorm:"column:code;size:50;not null;index" json:"code"`
	UserID     int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	RedeemedAt time.Time `gorm:"column:redeemed_at;autoCreateTime" json:"redeemed_at"`
}

// TableName 表名
func (RedeemLog) TableName() string {
	return "redeem_logs"
}
