// Package models 数据模型 - 玩家
package models

import (
	"time"
)

// Player 玩家表
type Player struct {
	UserID         int64      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	Username       string     `gorm:"column:username;size:255" json:"username"`
	FirstName      string     `gorm:"column:first_name;size:255" json:"first_name"`
	Coins          int64      `gorm:"column:coins;default:0" json:"coins"`
	Catches        int64      `gorm:"column:catches;default:0" json:"catches"`
	LastDaily      *time.Time `gorm:"column:last_daily" json:"last_daily,omitempty"`
	Wins           int64      `gorm:"column:wins;default:0" json:"wins"`
	Losses         int64      `gorm:"column:losses;default:0" json:"losses"`
	Banned         bool       `gorm:"column:banned;default:false" json:"banned"`
	MilestoneLevel int        `gorm:"column:milestone_level;default:0" json:"milestone_level"`
}

// TableName 表名
func (Player) TableName() string {
	return "players"
}

// DisplayName 展示名，优先 FirstName
func (p *Player) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return p.Username
	}
	return "Unknown"
}

// CanClaimDaily 是否可以领取每日奖励
func (p *Player) CanClaimDaily(now time.Time) bool {
	if p.LastDaily == nil {
		return true
	}
	return now.Sub(*p.LastDaily) >= 24*time.Hour
}

// DailyRemaining 距离下次可领取的剩余时长，可领取时为 0
func (p *Player) DailyRemaining(now time.Time) time.Duration {
	if p.LastDaily == nil {
		return 0
	}
	remaining := p.LastDaily.Add(24 * time.Hour).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
