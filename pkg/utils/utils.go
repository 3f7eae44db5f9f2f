// Package utils 工具函数
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	// 兑换码字符集，去掉易混淆字符
	codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateCode 生成随机兑换码，形如 WAIFU-XXXX-XXXX
func GenerateCode() (string, error) {
	var sb strings.Builder
	sb.WriteString("WAIFU")
	for block := 0; block < 2; block++ {
		sb.WriteByte('-')
		for i := 0; i < 4; i++ {
			num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
			if err != nil {
				return "", err
			}
			sb.WriteByte(codeChars[num.Int64()])
		}
	}
	return sb.String(), nil
}

// RandomInt 返回 [min, max] 区间的随机整数
func RandomInt(min, max int64) (int64, error) {
	if max <= min {
		return min, nil
	}
	num, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + num.Int64(), nil
}

// CoinFlip 掷硬币
func CoinFlip() (bool, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return false, err
	}
	return num.Int64() == 1, nil
}

// FormatDuration 格式化时长显示
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", int(d.Seconds())%60)
}

// FormatTimeUTC 格式化为 UTC 时间字符串
func FormatTimeUTC(t time.Time, layout string) string {
	return t.UTC().Format(layout)
}

// WeekID 生成 ISO 周编号，形如 2026-W35
func WeekID(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// PrevWeekID 上一个 ISO 周编号
func PrevWeekID(t time.Time) string {
	return WeekID(t.UTC().AddDate(0, 0, -7))
}

// IsExpired 判断时间是否已过期
func IsExpired(expiryTime time.Time) bool {
	return time.Now().After(expiryTime)
}

// ParseDays 解析形如 "7d" 的天数后缀
func ParseDays(s string) (int, bool) {
	if !strings.HasSuffix(s, "d") {
		return 0, false
	}
	var days int
	if _, err := fmt.Sscanf(s, "%dd", &days); err != nil || days <= 0 {
		return 0, false
	}
	return days, true
}

// Ordinal 数字序数词，1 -> 1st
func Ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			suffix = "st"
		}
	case 2:
		if n%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if n%100 != 13 {
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
