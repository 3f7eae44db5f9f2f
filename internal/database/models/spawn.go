// Package models 数据模型 - 活跃刷新
package models

import (
	"time"
)

// ActiveSpawn 当前可捕捉的角色，每个群组最多一条
type ActiveSpawn struct {
	GroupID   int64     `gorm:"column:group_id;primaryKey;autoIncrement:false" json:"group_id"`
	CharID    uint      `gorm:"column:char_id;not null" json:"char_id"`
	Token     string    `gorm:"column:token;size:36;not null" json:"token"` // 本次刷新的唯一标识，过期与捕捉都以它为准
	MessageID int       `gorm:"column:message_id" json:"message_id"`
	SpawnedAt time.Time `gorm:"column:spawned_at;autoCreateTime" json:"spawned_at"`
	CaughtBy  *int64    `gorm:"column:caught_by" json:"caught_by,omitempty"`
}

// TableName 表名
func (ActiveSpawn) TableName() string {
	return "active_spawns"
}

// IsClaimed 是否已被捕捉
func (s *ActiveSpawn) IsClaimed() bool {
	return s.CaughtBy != nil
}
