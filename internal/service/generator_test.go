package service

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
)

func TestComposeName(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name       string
		recipient  string
		wantSuffix string
	}{
		{"普通名字取首字母", "nikhil", "[N]"},
		{"已是大写保持不变", "Alice", "[A]"},
		{"带空格先裁剪", "  bob  ", "[B]"},
		{"空名回退占位符", "", "[X]"},
		{"纯空白回退占位符", "   ", "[X]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeName(rng, tt.recipient)
			if !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("ComposeName(%q) = %q, want suffix %q", tt.recipient, got, tt.wantSuffix)
			}
			// 名、姓、称号（两词）加尾缀
			if parts := strings.Fields(got); len(parts) < 4 {
				t.Errorf("角色名应有名、姓、称号几段: %q", got)
			}
		})
	}
}

func TestComposeWorld(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name       string
		kind       models.AwardKind
		wantPrefix string
	}{
		{"周榜奖励", models.AwardKindLeaderboard, "Champions of "},
		{"里程碑奖励", models.AwardKindMilestone, "Treasury of "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeWorld(rng, tt.kind)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("ComposeWorld(%s) = %q, want prefix %q", tt.kind, got, tt.wantPrefix)
			}
		})
	}

	plain := ComposeWorld(rng, models.AwardKindAdmin)
	if strings.HasPrefix(plain, "Champions of ") || strings.HasPrefix(plain, "Treasury of ") {
		t.Errorf("管理员发放不应加前缀: %q", plain)
	}
}

func TestAwardReason(t *testing.T) {
	tests := []struct {
		name   string
		kind   models.AwardKind
		period string
		want   string
	}{
		{"周榜奖励", models.AwardKindLeaderboard, "2026-W35", "Champions of 2026-W35"},
		{"里程碑奖励", models.AwardKindMilestone, "10000", "Treasury of 10000 coins"},
		{"管理员发放", models.AwardKindAdmin, "", "Special grant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AwardReason(tt.kind, tt.period, 1); got != tt.want {
				t.Errorf("AwardReason = %q, want %q", got, tt.want)
			}
		})
	}
}
