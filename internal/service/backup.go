// Package service 数据备份服务
package service

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// BackupService 备份服务
type BackupService struct {
	cfg       *config.Config
	backupDir string
}

// BackupData 备份数据结构
type BackupData struct {
	Version     string                   `json:"version"`
	CreatedAt   time.Time                `json:"created_at"`
	Characters  []models.Character       `json:"characters"`
	Players     []models.Player          `json:"players"`
	Collections []models.CollectionEntry `json:"collections"`
	Codes       []models.RedeemCode      `json:"codes"`
	Ranks       []models.WeeklyRank      `json:"weekly_ranks"`
	Awards      []models.CustomAward     `json:"custom_awards"`
}

// BackupResult 备份结果
type BackupResult struct {
	Filename   string
	FilePath   string
	Size       int64
	Duration   time.Duration
	Records    int
	Compressed bool
}

// NewBackupService 创建备份服务
func NewBackupService() *BackupService {
	cfg := config.Get()
	backupDir := cfg.Backup.Dir
	if backupDir == "" {
		backupDir = "./data"
	}

	// 确保备份目录存在
	os.MkdirAll(backupDir, 0755)

	return &BackupService{
		cfg:       cfg,
		backupDir: backupDir,
	}
}

// Backup 执行备份
func (s *BackupService) Backup(compress bool) (*BackupResult, error) {
	startTime := time.Now()
	db := database.GetDB()

	var data BackupData
	data.Version = "1.0"
	data.CreatedAt = time.Now().UTC()

	if err := db.Find(&data.Characters).Error; err != nil {
		return nil, fmt.Errorf("backup characters: %w", err)
	}
	if err := db.Find(&data.Players).Error; err != nil {
		return nil, fmt.Errorf("backup players: %w", err)
	}
	if err := db.Find(&data.Collections).Error; err != nil {
		return nil, fmt.Errorf("backup collections: %w", err)
	}
	if err := db.Find(&data.Codes).Error; err != nil {
		return nil, fmt.Errorf("backup codes: %w", err)
	}
	if err := db.Find(&data.Ranks).Error; err != nil {
		return nil, fmt.Errorf("backup weekly ranks: %w", err)
	}
	if err := db.Find(&data.Awards).Error; err != nil {
		return nil, fmt.Errorf("backup awards: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	var filename string
	if compress {
		filename = fmt.Sprintf("backup_%s.json.gz", timestamp)
	} else {
		filename = fmt.Sprintf("backup_%s.json", timestamp)
	}
	filePath := filepath.Join(s.backupDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}

	var fileSize int64
	if compress {
		fileSize, err = s.writeCompressed(filePath, jsonData)
	} else {
		fileSize, err = s.writeRaw(filePath, jsonData)
	}
	if err != nil {
		return nil, err
	}

	totalRecords := len(data.Characters) + len(data.Players) + len(data.Collections) +
		len(data.Codes) + len(data.Ranks) + len(data.Awards)

	logger.Info().
		Str("file", filename).
		Int64("size", fileSize).
		Int("records", totalRecords).
		Msg("database backup completed")

	return &BackupResult{
		Filename:   filename,
		FilePath:   filePath,
		Size:       fileSize,
		Duration:   time.Since(startTime),
		Records:    totalRecords,
		Compressed: compress,
	}, nil
}

// writeRaw 写入原始 JSON
func (s *BackupService) writeRaw(path string, data []byte) (int64, error) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("write backup: %w", err)
	}
	info, _ := os.Stat(path)
	return info.Size(), nil
}

// writeCompressed 写入压缩文件
func (s *BackupService) writeCompressed(path string, data []byte) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create backup file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return 0, fmt.Errorf("compress backup: %w", err)
	}
	gz.Close()
	file.Close()

	info, _ := os.Stat(path)
	return info.Size(), nil
}

// Restore 从备份恢复
func (s *BackupService) Restore(filePath string) error {
	var data []byte
	var err error

	if filepath.Ext(filePath) == ".gz" {
		data, err = s.readCompressed(filePath)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}

	var backupData BackupData
	if err := json.Unmarshal(data, &backupData); err != nil {
		return fmt.Errorf("parse backup data: %w", err)
	}

	db := database.GetDB()

	for _, char := range backupData.Characters {
		if err := db.Save(&char).Error; err != nil {
			logger.Warn().Err(err).Uint("char_id", char.ID).Msg("restore character failed")
		}
	}
	for _, player := range backupData.Players {
		if err := db.Save(&player).Error; err != nil {
			logger.Warn().Err(err).Int64("user_id", player.UserID).Msg("restore player failed")
		}
	}
	for _, entry := range backupData.Collections {
		if err := db.Save(&entry).Error; err != nil {
			logger.Warn().Err(err).Uint("entry_id", entry.ID).Msg("restore collection entry failed")
		}
	}
	for _, code := range backupData.Codes {
		if err := db.Save(&code).Error; err != nil {
			logger.Warn().Err(err).Str("code", code.Code).Msg("restore code failed")
		}
	}
	for _, rank := range backupData.Ranks {
		if err := db.Save(&rank).Error; err != nil {
			logger.Warn().Err(err).Int64("user_id", rank.UserID).Msg("restore rank failed")
		}
	}
	for _, award := range backupData.Awards {
		if err := db.Save(&award).Error; err != nil {
			logger.Warn().Err(err).Uint("award_id", award.ID).Msg("restore award failed")
		}
	}

	logger.Info().Str("file", filePath).Msg("backup restored")
	return nil
}

// readCompressed 读取压缩备份
func (s *BackupService) readCompressed(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return io.ReadAll(gz)
}

// Cleanup 清理超出保留数量的旧备份
func (s *BackupService) Cleanup() error {
	maxCount := s.cfg.Backup.MaxCount
	if maxCount <= 0 {
		maxCount = 7
	}

	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return err
	}

	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && len(name) > 7 && name[:7] == "backup_" {
			backups = append(backups, name)
		}
	}
	if len(backups) <= maxCount {
		return nil
	}

	// 文件名带时间戳，字典序即时间序
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-maxCount] {
		if err := os.Remove(filepath.Join(s.backupDir, name)); err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("remove old backup failed")
		} else {
			logger.Info().Str("file", name).Msg("old backup removed")
		}
	}
	return nil
}
