// Package config 配置管理模块
package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Config 全局配置结构
type Config struct {
	BotName  string  `json:"bot_name"`
	BotToken string  `json:"bot_token"`
	Admins   []int64 `json:"admins"`
	Money    string  `json:"money"`

	Spawn    SpawnConfig    `json:"spawn"`
	Economy  EconomyConfig  `json:"economy"`
	Weekly   WeeklyConfig   `json:"weekly"`
	Database DatabaseConfig `json:"database"`
	API      APIConfig      `json:"api"`
	Backup   BackupConfig   `json:"backup"`
}

// SpawnConfig 刷新与捕捉配置
type SpawnConfig struct {
	Chance         float64 `json:"chance"`           // 每条群消息触发刷新的概率
	CooldownSec    int     `json:"cooldown_sec"`     // 同一群组两次刷新的最小间隔
	CatchWindowSec int     `json:"catch_window_sec"` // 捕捉窗口时长
	CatchReward    int     `json:"catch_reward"`     // 捕捉成功奖励金币
}

// EconomyConfig 经济系统配置
type EconomyConfig struct {
	DailyMin   int   `json:"daily_min"`  // 每日签到最小奖励
	DailyMax   int   `json:"daily_max"`  // 每日签到最大奖励
	BurnValue  int   `json:"burn_value"` // 销毁角色可得金币
	Milestones []int `json:"milestones"` // 金币里程碑，达到即奖励专属角色
}

// WeeklyConfig 周榜配置
type WeeklyConfig struct {
	Enabled       bool `json:"enabled"`
	WeeksRequired int  `json:"weeks_required"` // 连续进入前三的周数门槛
	TopN          int  `json:"top_n"`          // 奖励评估的名次范围
	SnapshotSize  int  `json:"snapshot_size"`  // 每周快照记录的名次数量
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// APIConfig Web API 配置
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// BackupConfig JSON 备份配置
type BackupConfig struct {
	Enabled  bool   `json:"enabled"`
	Dir      string `json:"dir"`
	MaxCount int    `json:"max_count"`
}

var (
	cfg     *Config
	cfgLock sync.RWMutex
)

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// 设置默认值
	config.setDefaults()

	cfgLock.Lock()
	cfg = &config
	cfgLock.Unlock()

	return &config, nil
}

// Get 获取全局配置（线程安全）
func Get() *Config {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	return cfg
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// setDefaults 设置默认值
func (c *Config) setDefaults() {
	if c.Money == "" {
		c.Money = "coins"
	}
	if c.Spawn.Chance == 0 {
		c.Spawn.Chance = 0.05
	}
	if c.Spawn.CooldownSec == 0 {
		c.Spawn.CooldownSec = 120
	}
	if c.Spawn.CatchWindowSec == 0 {
		c.Spawn.CatchWindowSec = 90
	}
	if c.Spawn.CatchReward == 0 {
		c.Spawn.CatchReward = 20
	}
	if c.Economy.DailyMin == 0 {
		c.Economy.DailyMin = 250
	}
	if c.Economy.DailyMax == 0 {
		c.Economy.DailyMax = 600
	}
	if c.Economy.BurnValue == 0 {
		c.Economy.BurnValue = 10
	}
	if len(c.Economy.Milestones) == 0 {
		c.Economy.Milestones = []int{1000, 5000, 10000, 25000, 50000}
	}
	if c.Weekly.WeeksRequired == 0 {
		c.Weekly.WeeksRequired = 1
	}
	if c.Weekly.TopN == 0 {
		c.Weekly.TopN = 3
	}
	if c.Weekly.SnapshotSize == 0 {
		c.Weekly.SnapshotSize = 10
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = "data"
	}
	if c.Backup.MaxCount == 0 {
		c.Backup.MaxCount = 7
	}
}

// IsAdmin 判断是否是管理员
func (c *Config) IsAdmin(userID int64) bool {
	for _, admin := range c.Admins {
		if admin == userID {
			return true
		}
	}
	return false
}

// configPath 存储配置文件路径
var configPath string

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return configPath
}

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configPath = path
}

// Reload 重新加载配置文件
func Reload() (*Config, error) {
	if configPath == "" {
		return nil, nil
	}
	return Load(configPath)
}

// UpdateAndSave 更新配置并保存
func UpdateAndSave(updateFn func(*Config)) error {
	cfgLock.Lock()
	defer cfgLock.Unlock()

	if cfg == nil {
		return nil
	}

	// 执行更新函数
	updateFn(cfg)

	// 保存到文件
	if configPath != "" {
		return cfg.Save(configPath)
	}

	return nil
}
