// Package models 数据模型 - 收藏
package models

import (
	"time"
)

// CollectionEntry 收藏表，玩家与角色的持有关系
type CollectionEntry struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	CharID   uint      `gorm:"column:char_id;not null;index" json:"char_id"`
	CaughtAt time.Time `gorm:"column:caught_at;autoCreateTime" json:"caught_at"`
}

// TableName 表名
func (CollectionEntry) TableName() string {
	return "collections"
}

// CollectionItem 收藏展示条目（联表查询结果）
type CollectionItem struct {
	EntryID  uint    `json:"entry_id"`
	CharID   uint    `json:"char_id"`
	Name     string  `json:"name"`
	Anime    string  `json:"anime"`
	Rarity   Rarity  `json:"rarity"`
	ImageURL *string `json:"image_url,omitempty"`
	IsCustom bool    `json:"is_custom"`
}
