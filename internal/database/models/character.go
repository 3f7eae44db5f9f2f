// Package models 数据模型 - 角色
package models

import (
	"strings"
	"time"
)

// Rarity 稀有度等级
type Rarity string

const (
	RarityCommon    Rarity = "⭐ Common"
	RarityUncommon  Rarity = "🌟 Uncommon"
	RarityRare      Rarity = "💫 Rare"
	RarityEpic      Rarity = "✨ Epic"
	RarityLegendary Rarity = "🌠 Legendary"
)

// rarityWeights 稀有度 → 刷新权重
var rarityWeights = map[Rarity]int{
	RarityCommon:    60,
	RarityUncommon:  25,
	RarityRare:      10,
	RarityEpic:      4,
	RarityLegendary: 1,
}

// AllRarities 按稀有度从低到高排列
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// Weight 刷新权重，未知稀有度按 10 处理
func (r Rarity) Weight() int {
	if w, ok := rarityWeights[r]; ok {
		return w
	}
	return 10
}

// Emoji 稀有度前缀表情
func (r Rarity) Emoji() string {
	parts := strings.SplitN(string(r), " ", 2)
	return parts[0]
}

// ShortName 不含表情的稀有度名
func (r Rarity) ShortName() string {
	parts := strings.SplitN(string(r), " ", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return string(r)
}

// ParseRarity 解析用户输入的稀有度，支持 "rare" / "💫 Rare" 两种写法
func ParseRarity(s string) (Rarity, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRarities() {
		if strings.ToLower(r.ShortName()) == s || strings.ToLower(string(r)) == s {
			return r, true
		}
	}
	return "", false
}

// Character 角色表
type Character struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Anime     string    `gorm:"column:anime;size:255;not null" json:"anime"`
	Rarity    Rarity    `gorm:"column:rarity;size:50;not null;default:'⭐ Common'" json:"rarity"`
	ImageURL  *string   `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	AddedBy   int64     `gorm:"column:added_by" json:"added_by"` // 0 = 系统生成
	IsCustom  bool      `gorm:"column:is_custom;default:false;index" json:"is_custom"`
	OwnerID   *int64    `gorm:"column:owner_id" json:"owner_id,omitempty"` // 专属角色的归属者
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName 表名
func (Character) TableName() string {
	return "characters"
}

// HasImage 是否有图片
func (c *Character) HasImage() bool {
	return c.ImageURL != nil && *c.ImageURL != ""
}

// IsExclusive 是否为专属角色
func (c *Character) IsExclusive() bool {
	return c.IsCustom && c.OwnerID != nil
}
