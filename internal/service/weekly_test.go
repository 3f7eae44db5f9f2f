package service

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

func TestParseWeekStart(t *testing.T) {
	tests := []struct {
		name string
		week string
	}{
		{"年中的周", "2026-W35"},
		{"第一周", "2026-W01"},
		{"跨年周", "2025-W52"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWeekStart(tt.week)
			if err != nil {
				t.Fatalf("parseWeekStart(%q) error: %v", tt.week, err)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("周起始应为周一, got %v", got.Weekday())
			}
			// 还原出的日期必须落回同一个 ISO 周
			var wantYear, wantWeek int
			if _, err := fmt.Sscanf(tt.week, "%d-W%d", &wantYear, &wantWeek); err != nil {
				t.Fatal(err)
			}
			year, week := got.ISOWeek()
			if year != wantYear || week != wantWeek {
				t.Errorf("parseWeekStart(%q) 落在 %04d-W%02d", tt.week, year, week)
			}
		})
	}
}

func TestParseWeekStart_Invalid(t *testing.T) {
	if _, err := parseWeekStart("garbage"); err == nil {
		t.Error("非法周号应返回错误")
	}
}

// 连续计数从结算周往回走，断档一周就归零重计，跌出名次同样止步
func TestWalkStreak(t *testing.T) {
	history := func(entries map[string]int) rankLookup {
		return func(userID int64, week string) (*models.WeeklyRank, error) {
			rank, ok := entries[week]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.WeeklyRank{UserID: userID, Week: week, Rank: rank}, nil
		}
	}

	tests := []struct {
		name    string
		week    string
		entries map[string]int
		want    int
	}{
		{"连续三周在榜", "2026-W35", map[string]int{"2026-W35": 1, "2026-W34": 2, "2026-W33": 3}, 3},
		{"中间断档只算到断点", "2026-W35", map[string]int{"2026-W35": 1, "2026-W33": 1, "2026-W32": 1}, 1},
		{"跌出前三即止", "2026-W35", map[string]int{"2026-W35": 2, "2026-W34": 4, "2026-W33": 1}, 1},
		{"结算周就不在榜", "2026-W35", map[string]int{"2026-W34": 1}, 0},
		{"空历史", "2026-W35", map[string]int{}, 0},
		{"跨年连续", "2026-W01", map[string]int{"2026-W01": 1, "2025-W52": 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := walkStreak(history(tt.entries), 3, 7, tt.week)
			if err != nil {
				t.Fatalf("walkStreak error: %v", err)
			}
			if got != tt.want {
				t.Errorf("连续周数 = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWalkStreak_BadWeek(t *testing.T) {
	lookup := func(int64, string) (*models.WeeklyRank, error) {
		return nil, gorm.ErrRecordNotFound
	}
	if _, err := walkStreak(lookup, 3, 7, "garbage"); err == nil {
		t.Error("非法周号应返回错误")
	}
}

// 周号与还原互为逆操作，连续回拨 7 天应走出连续的周号序列
func TestWeekIDRoundTrip(t *testing.T) {
	cursor := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		w := utils.WeekID(cursor)
		if seen[w] {
			t.Fatalf("周号重复出现: %s", w)
		}
		seen[w] = true

		start, err := parseWeekStart(w)
		if err != nil {
			t.Fatalf("parseWeekStart(%q) error: %v", w, err)
		}
		if utils.WeekID(start) != w {
			t.Errorf("往返不一致: %q -> %q", w, utils.WeekID(start))
		}
		cursor = cursor.AddDate(0, 0, -7)
	}
}
