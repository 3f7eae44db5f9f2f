// Package models 兑换码与玩家模型测试
package models

import (
	"testing"
	"time"
)

func TestRedeemCode_IsExpired(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		expires  *time.Time
		expected bool
	}{
		{"已过期", &past, true},
		{"未过期", &future, false},
		{"永不过期", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &RedeemCode{ExpiresAt: tt.expires}
			if got := c.IsExpired(now); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRedeemCode_IsExhausted(t *testing.T) {
	tests := []struct {
		name     string
		used     int
		max      int
		expected bool
	}{
		{"未使用", 0, 1, false},
		{"还有剩余", 4, 5, false},
		{"刚好用完", 5, 5, true},
		{"超额记录", 6, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &RedeemCode{UsedCount: tt.used, MaxUses: tt.max}
			if got := c.IsExhausted(); got != tt.expected {
				t.Errorf("IsExhausted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPlayer_CanClaimDaily(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-3 * time.Hour)
	old := now.Add(-25 * time.Hour)

	tests := []struct {
		name     string
		last     *time.Time
		expected bool
	}{
		{"从未领取", nil, true},
		{"3小时前领取过", &recent, false},
		{"超过24小时", &old, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{LastDaily: tt.last}
			if got := p.CanClaimDaily(now); got != tt.expected {
				t.Errorf("CanClaimDaily() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPlayer_DailyRemaining(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	sixHoursAgo := now.Add(-6 * time.Hour)

	p := &Player{LastDaily: &sixHoursAgo}
	if got := p.DailyRemaining(now); got != 18*time.Hour {
		t.Errorf("DailyRemaining() = %v, want 18h", got)
	}

	p = &Player{}
	if got := p.DailyRemaining(now); got != 0 {
		t.Errorf("从未领取时 DailyRemaining() = %v, want 0", got)
	}
}

func TestPlayer_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		player   *Player
		expected string
	}{
		{"有 FirstName", &Player{FirstName: "Nikhil", Username: "nik"}, "Nikhil"},
		{"只有 Username", &Player{Username: "nik"}, "nik"},
		{"都为空", &Player{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.player.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
