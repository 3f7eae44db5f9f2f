// Package models 数据模型测试
package models

import (
	"testing"
)

func TestRarity_Weight(t *testing.T) {
	tests := []struct {
		rarity   Rarity
		expected int
	}{
		{RarityCommon, 60},
		{RarityUncommon, 25},
		{RarityRare, 10},
		{RarityEpic, 4},
		{RarityLegendary, 1},
		{Rarity("🔮 Mythic"), 10}, // 未知稀有度回退到 10
	}

	for _, tt := range tests {
		t.Run(string(tt.rarity), func(t *testing.T) {
			if got := tt.rarity.Weight(); got != tt.expected {
				t.Errorf("Weight() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestParseRarity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Rarity
		ok       bool
	}{
		{"小写短名", "rare", RarityRare, true},
		{"大写短名", "LEGENDARY", RarityLegendary, true},
		{"带表情全名", "💫 Rare", RarityRare, true},
		{"前后空格", "  epic  ", RarityEpic, true},
		{"未知稀有度", "mythic", "", false},
		{"空字符串", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRarity(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseRarity(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestRarity_ShortName(t *testing.T) {
	if got := RarityLegendary.ShortName(); got != "Legendary" {
		t.Errorf("ShortName() = %q, want Legendary", got)
	}
	if got := RarityCommon.Emoji(); got != "⭐" {
		t.Errorf("Emoji() = %q, want ⭐", got)
	}
}

func TestCharacter_HasImage(t *testing.T) {
	tests := []struct {
		name     string
		imageURL *string
		expected bool
	}{
		{"有图片", strPtr("https://img.example/rem.jpg"), true},
		{"空字符串", strPtr(""), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Character{ImageURL: tt.imageURL}
			if got := c.HasImage(); got != tt.expected {
				t.Errorf("HasImage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCharacter_IsExclusive(t *testing.T) {
	owner := int64(123)

	tests := []struct {
		name     string
		char     *Character
		expected bool
	}{
		{"专属角色", &Character{IsCustom: true, OwnerID: &owner}, true},
		{"普通自定义角色", &Character{IsCustom: true}, false},
		{"普通角色", &Character{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.char.IsExclusive(); got != tt.expected {
				t.Errorf("IsExclusive() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
