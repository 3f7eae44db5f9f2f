package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
)

func TestCatchFailureNotice(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantText  string
		wantAlert bool
		wantKnown bool
	}{
		{"慢一步", service.ErrAlreadyClaimed, "Too slow! Someone got her first.", false, true},
		{"无活跃刷新", service.ErrNoActiveSpawn, "This spawn is gone.", false, true},
		{"角色已被删", service.ErrCharacterGone, "This spawn is gone.", false, true},
		{"玩家被封禁", service.ErrPlayerBanned, "You are banned from playing.", true, true},
		{"包裹后仍可识别", fmt.Errorf("claim: %w", service.ErrCharacterGone), "This spawn is gone.", false, true},
		{"未知错误", errors.New("boom"), "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, alert, known := catchFailureNotice(tt.err)
			if known != tt.wantKnown {
				t.Fatalf("known = %v, want %v", known, tt.wantKnown)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if alert != tt.wantAlert {
				t.Errorf("alert = %v, want %v", alert, tt.wantAlert)
			}
		})
	}
}

func TestNameMatches(t *testing.T) {
	tests := []struct {
		name   string
		actual string
		guess  string
		want   bool
	}{
		{"完全匹配", "Rem Rezero", "rem rezero", true},
		{"单词匹配", "Rem Rezero", "Rem", true},
		{"三字以上子串", "Asuna Yuuki", "suna", true},
		{"两字子串不算", "Asuna Yuuki", "as", false},
		{"完全不沾边", "Rem Rezero", "emilia", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nameMatches(tt.actual, tt.guess); got != tt.want {
				t.Errorf("nameMatches(%q, %q) = %v, want %v", tt.actual, tt.guess, got, tt.want)
			}
		})
	}
}
