// Package web Web API 服务
//
// 托管平台的保活探针打 /health，其余只读接口给面板用。
package web

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	pkglogger "github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

// Server Web 服务器
type Server struct {
	app       *fiber.App
	cfg       *config.APIConfig
	startTime time.Time
}

// New 创建 Web 服务器
func New(cfg *config.APIConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// 中间件
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	server := &Server{
		app:       app,
		cfg:       cfg,
		startTime: time.Now(),
	}

	server.registerRoutes()
	return server
}

// registerRoutes 注册路由
func (s *Server) registerRoutes() {
	// 保活与健康检查
	s.app.Get("/health", s.healthCheck)
	s.app.Get("/", s.healthCheck)

	// 详细状态
	s.app.Get("/status", s.detailedStatus)

	// API v1
	v1 := s.app.Group("/api/v1")
	v1.Get("/stats", s.getStats)
	v1.Get("/player/:id", s.getPlayer)
	v1.Get("/leaderboard", s.getLeaderboard)
}

// Start 启动服务器
func (s *Server) Start() error {
	if !s.cfg.Enabled {
		pkglogger.Info().Msg("web api disabled, skipping")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	pkglogger.Info().Str("addr", addr).Msg("web api starting")

	return s.app.Listen(addr)
}

// Stop 停止服务器
func (s *Server) Stop() error {
	return s.app.Shutdown()
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// healthCheck 健康检查
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

// StatusResponse 详细状态响应
type StatusResponse struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Uptime   string         `json:"uptime"`
	System   SystemInfo     `json:"system"`
	Database DatabaseStatus `json:"database"`
}

// SystemInfo 系统信息
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     string `json:"mem_alloc"`
}

// DatabaseStatus 数据库状态
type DatabaseStatus struct {
	Connected   bool  `json:"connected"`
	PlayerCount int64 `json:"player_count"`
}

// detailedStatus 详细状态
func (s *Server) detailedStatus(c *fiber.Ctx) error {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	dbConnected := false
	var playerCount int64
	if db := database.GetDB(); db != nil {
		sqlDB, err := db.DB()
		if err == nil && sqlDB.Ping() == nil {
			dbConnected = true
			playerCount, _, _ = repository.NewPlayerRepository().CountStats()
		}
	}

	return c.JSON(StatusResponse{
		Status:  "ok",
		Version: "1.0.0",
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		System: SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     fmt.Sprintf("%.2f MB", float64(memStats.Alloc)/1024/1024),
		},
		Database: DatabaseStatus{
			Connected:   dbConnected,
			PlayerCount: playerCount,
		},
	})
}

// getStats 全局统计，30 秒缓存顶住面板轮询
func (s *Server) getStats(c *fiber.Ctx) error {
	stats, err := utils.CacheGetOrSet("web:stats", 30*time.Second, func() (interface{}, error) {
		return service.NewStatsService().GetBotStats()
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to collect stats",
		})
	}
	return c.JSON(stats)
}

// PlayerResponse 玩家响应
type PlayerResponse struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Coins      int64  `json:"coins"`
	Catches    int64  `json:"catches"`
	Wins       int64  `json:"wins"`
	Losses     int64  `json:"losses"`
	Collection int64  `json:"collection"`
}

// getPlayer 玩家信息，参数可以是数字 ID 或用户名
func (s *Server) getPlayer(c *fiber.Ctx) error {
	playerRepo := repository.NewPlayerRepository()

	var player *models.Player
	if userID, err := strconv.ParseInt(c.Params("id"), 10, 64); err == nil {
		player, err = playerRepo.GetByID(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "player not found",
			})
		}
	} else {
		player, err = playerRepo.GetByUsername(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "player not found",
			})
		}
	}
	userID := player.UserID
	collection, _ := repository.NewCollectionRepository().Count(userID)

	return c.JSON(PlayerResponse{
		UserID:     player.UserID,
		Name:       player.DisplayName(),
		Coins:      player.Coins,
		Catches:    player.Catches,
		Wins:       player.Wins,
		Losses:     player.Losses,
		Collection: collection,
	})
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Catches int64  `json:"catches"`
	Coins   int64  `json:"coins"`
}

// getLeaderboard 排行榜，默认按捕获数，?by=coins 切到富豪榜
func (s *Server) getLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	playerRepo := repository.NewPlayerRepository()
	var players []models.Player
	var err error
	if c.Query("by") == "coins" {
		players, err = playerRepo.GetTopByCoins(limit)
	} else {
		players, err = playerRepo.GetTopByCatches(limit)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load leaderboard",
		})
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, LeaderboardEntry{
			Rank:    i + 1,
			Name:    p.DisplayName(),
			Catches: p.Catches,
			Coins:   p.Coins,
		})
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}
