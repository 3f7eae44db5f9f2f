// Package config 配置模块测试
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_IsAdmin(t *testing.T) {
	cfg := &Config{
		Admins: []int64{11111, 22222},
	}

	tests := []struct {
		name     string
		userID   int64
		expected bool
	}{
		{"Admin 是管理员", 11111, true},
		{"Admin2 是管理员", 22222, true},
		{"普通用户不是管理员", 99999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.IsAdmin(tt.userID); got != tt.expected {
				t.Errorf("IsAdmin(%d) = %v, want %v", tt.userID, got, tt.expected)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()

	if cfg.Money != "coins" {
		t.Errorf("默认 Money 应该是 'coins'，实际是 '%s'", cfg.Money)
	}

	if cfg.Spawn.Chance != 0.05 {
		t.Errorf("默认刷新概率应该是 0.05，实际是 %f", cfg.Spawn.Chance)
	}

	if cfg.Spawn.CooldownSec != 120 {
		t.Errorf("默认刷新冷却应该是 120，实际是 %d", cfg.Spawn.CooldownSec)
	}

	if cfg.Spawn.CatchWindowSec != 90 {
		t.Errorf("默认捕捉窗口应该是 90，实际是 %d", cfg.Spawn.CatchWindowSec)
	}

	if cfg.Spawn.CatchReward != 20 {
		t.Errorf("默认捕捉奖励应该是 20，实际是 %d", cfg.Spawn.CatchReward)
	}

	if cfg.Weekly.WeeksRequired != 1 {
		t.Errorf("默认连续周数门槛应该是 1，实际是 %d", cfg.Weekly.WeeksRequired)
	}

	if cfg.Weekly.TopN != 3 {
		t.Errorf("默认 TopN 应该是 3，实际是 %d", cfg.Weekly.TopN)
	}

	if cfg.Weekly.SnapshotSize != 10 {
		t.Errorf("默认快照数量应该是 10，实际是 %d", cfg.Weekly.SnapshotSize)
	}

	if cfg.Database.Port != 3306 {
		t.Errorf("默认数据库端口应该是 3306，实际是 %d", cfg.Database.Port)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("默认 API 端口应该是 8080，实际是 %d", cfg.API.Port)
	}
}

func TestConfig_SetDefaultsKeepsExplicit(t *testing.T) {
	cfg := &Config{
		Spawn: SpawnConfig{Chance: 0.2, CooldownSec: 30},
	}
	cfg.setDefaults()

	if cfg.Spawn.Chance != 0.2 {
		t.Errorf("显式配置的刷新概率不应被覆盖，实际是 %f", cfg.Spawn.Chance)
	}

	if cfg.Spawn.CooldownSec != 30 {
		t.Errorf("显式配置的刷新冷却不应被覆盖，实际是 %d", cfg.Spawn.CooldownSec)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := `{
		"bot_name": "waifubot",
		"bot_token": "123:abc",
		"admins": [1214273889],
		"spawn": {"chance": 0.1}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() 失败: %v", err)
	}

	if cfg.BotName != "waifubot" {
		t.Errorf("BotName = %s, want waifubot", cfg.BotName)
	}

	if !cfg.IsAdmin(1214273889) {
		t.Error("配置中的管理员应该通过 IsAdmin 检查")
	}

	if cfg.Spawn.Chance != 0.1 {
		t.Errorf("Spawn.Chance = %f, want 0.1", cfg.Spawn.Chance)
	}

	// 未显式配置的字段应填充默认值
	if cfg.Spawn.CatchWindowSec != 90 {
		t.Errorf("默认捕捉窗口应该是 90，实际是 %d", cfg.Spawn.CatchWindowSec)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("加载非法 JSON 应该返回错误")
	}
}
