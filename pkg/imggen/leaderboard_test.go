package imggen

import (
	"bytes"
	"image/png"
	"testing"
	"time"
)

func TestGenerateLeaderboard(t *testing.T) {
	cfg := LeaderboardConfig{
		Title:    "🏆 Weekly Leaderboard",
		Subtitle: "2026-W35",
		Items: []RankData{
			{Rank: 1, Username: "alice", Catches: 42, Coins: 900},
			{Rank: 2, Username: "bob", Catches: 30, Coins: 640},
			{Rank: 3, Username: "carol", Catches: 12, Coins: 200},
		},
		GeneratedAt: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	}

	data, err := GenerateLeaderboard(cfg)
	if err != nil {
		t.Fatalf("GenerateLeaderboard error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 600 {
		t.Errorf("图片宽度 = %d, want 600", bounds.Dx())
	}
	if bounds.Dy() <= 0 {
		t.Errorf("图片高度异常: %d", bounds.Dy())
	}
}

func TestGenerateLeaderboard_Empty(t *testing.T) {
	data, err := GenerateLeaderboard(LeaderboardConfig{
		Title:       "🏆 Weekly Leaderboard",
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("空榜也应能出图: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
}
