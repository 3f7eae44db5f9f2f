// Package models 数据模型 - 周榜快照
package models

// WeeklyRank 周榜历史表，(user_id, week) 唯一，写入后不再修改
type WeeklyRank struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64  `gorm:"column:user_id;not null;uniqueIndex:uniq_user_week" json:"user_id"`
	Week    string `gorm:"column:week;size:20;not null;uniqueIndex:uniq_user_week" json:"week"` // ISO 周标识，如 2026-W35
	Rank    int    `gorm:"column:rank;not null" json:"rank"`
	Catches int64  `gorm:"column:catches;not null" json:"catches"` // 快照时的捕捉数
}

// TableName 表名
func (WeeklyRank) TableName() string {
	return "weekly_ranks"
}

// IsTop 是否位于前 n 名
func (r *WeeklyRank) IsTop(n int) bool {
	return r.Rank >= 1 && r.Rank <= n
}
