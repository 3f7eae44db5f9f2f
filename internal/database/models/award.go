// Package models 数据模型 - 专属角色奖励记录
package models

import (
	"time"
)

// AwardKind 奖励来源类型
type AwardKind string

const (
	AwardKindLeaderboard AwardKind = "leaderboard" // 周榜连续前三
	AwardKindMilestone   AwardKind = "milestone"   // 金币里程碑
	AwardKindAdmin       AwardKind = "admin"       // 管理员手动授予
)

// CustomAward 专属角色奖励审计表
// (user_id, kind, period) 构成去重键，取代按 reason 子串匹配的判重方式
type CustomAward struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_user_kind_period" json:"user_id"`
	CharID    uint      `gorm:"column:char_id;not null" json:"char_id"`
	Kind      AwardKind `gorm:"column:kind;size:20;not null;index:idx_user_kind_period" json:"kind"`
	Period    string    `gorm:"column:period;size:20;index:idx_user_kind_period" json:"period"` // 周标识或里程碑级别，管理员授予为空
	Reason    string    `gorm:"column:reason;size:255" json:"reason"`
	AwardedAt time.Time `gorm:"column:awarded_at;autoCreateTime" json:"awarded_at"`
}

// TableName 表名
func (CustomAward) TableName() string {
	return "custom_awards"
}
