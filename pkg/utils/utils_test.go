package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode error: %v", err)
		}
		if !strings.HasPrefix(code, "WAIFU-") {
			t.Errorf("兑换码前缀错误: %q", code)
		}
		if len(code) != len("WAIFU-XXXX-XXXX") {
			t.Errorf("兑换码长度错误: %q", code)
		}
		if seen[code] {
			t.Errorf("兑换码重复: %q", code)
		}
		seen[code] = true
	}
}

func TestRandomInt(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n, err := RandomInt(250, 600)
		if err != nil {
			t.Fatalf("RandomInt error: %v", err)
		}
		if n < 250 || n > 600 {
			t.Errorf("RandomInt(250, 600) = %d 越界", n)
		}
	}

	// 区间退化时返回下界
	if n, _ := RandomInt(5, 5); n != 5 {
		t.Errorf("RandomInt(5, 5) = %d, want 5", n)
	}
}

func TestWeekID(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"周一当天", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), "2026-W35"},
		{"周日晚间", time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC), "2026-W35"},
		{"一月首周", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "2026-W02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekID(tt.t); got != tt.want {
				t.Errorf("WeekID(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestPrevWeekID(t *testing.T) {
	// 周一触发时归属于刚结束的那一周
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if got := PrevWeekID(monday); got != "2026-W35" {
		t.Errorf("PrevWeekID = %q, want 2026-W35", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m"},
		{2*time.Hour + 30*time.Minute, "2h 30m"},
		{3 * time.Hour, "3h"},
		{45 * time.Second, "45s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"7d", 7, true},
		{"30d", 30, true},
		{"0d", 0, false},
		{"7", 0, false},
		{"d", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDays(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseDays(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {12, "12th"}, {13, "13th"}, {21, "21st"}, {22, "22nd"},
	}
	for _, tt := range tests {
		if got := Ordinal(tt.n); got != tt.want {
			t.Errorf("Ordinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
