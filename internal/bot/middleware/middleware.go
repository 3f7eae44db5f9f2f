// Package middleware Bot 中间件
package middleware

import (
	"runtime/debug"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// Logger 日志中间件
func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user != nil {
				logger.Debug().
					Int64("user_id", user.ID).
					Str("username", user.Username).
					Str("text", c.Text()).
					Msg("update received")
			}
			return next(c)
		}
	}
}

// Recover 恢复中间件
func Recover() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Interface("panic", r).
						Str("stack", string(debug.Stack())).
						Msg("handler panic")

					c.Send("❌ Something went wrong, please try again later.")
				}
			}()
			return next(c)
		}
	}
}

// AdminOnly 管理员权限中间件
func AdminOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			cfg := config.Get()
			if cfg == nil {
				return c.Send("❌ Configuration not loaded.")
			}

			user := c.Sender()
			if user == nil {
				return c.Send("❌ Could not identify user.")
			}

			if !cfg.IsAdmin(user.ID) {
				return c.Send("❌ You are not allowed to use this command.")
			}

			return next(c)
		}
	}
}

// GroupOnly 群组中间件
func GroupOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || (chat.Type != tele.ChatGroup && chat.Type != tele.ChatSuperGroup) {
				return c.Send("❌ This command only works in groups.")
			}
			return next(c)
		}
	}
}

// PrivateOnly 私聊中间件
func PrivateOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || chat.Type != tele.ChatPrivate {
				return c.Send("❌ Please use this command in a private chat with me.")
			}
			return next(c)
		}
	}
}

// rateLimitEntry 速率限制条目
type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// rateLimiter 速率限制器
type rateLimiter struct {
	mu        sync.Mutex
	entries   map[int64]*rateLimitEntry
	limit     int
	window    time.Duration
	lastClean time.Time
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	return &rateLimiter{
		entries:   make(map[int64]*rateLimitEntry),
		limit:     requestsPerMinute,
		window:    time.Minute,
		lastClean: time.Now(),
	}
}

func (rl *rateLimiter) allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// 定期清理过期条目
	if now.Sub(rl.lastClean) > 5*time.Minute {
		for id, entry := range rl.entries {
			if now.After(entry.resetTime) {
				delete(rl.entries, id)
			}
		}
		rl.lastClean = now
	}

	entry, exists := rl.entries[userID]
	if !exists || now.After(entry.resetTime) {
		rl.entries[userID] = &rateLimitEntry{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if entry.count >= rl.limit {
		return false
	}

	entry.count++
	return true
}

// RateLimit 速率限制中间件
func RateLimit(requestsPerMinute int) tele.MiddlewareFunc {
	limiter := newRateLimiter(requestsPerMinute)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}

			// 管理员不受限制
			cfg := config.Get()
			if cfg != nil && cfg.IsAdmin(user.ID) {
				return next(c)
			}

			if !limiter.allow(user.ID) {
				logger.Warn().
					Int64("user_id", user.ID).
					Int("limit", requestsPerMinute).
					Msg("rate limit hit")

				return c.Send("⏳ Slow down! Try again in a bit.")
			}

			return next(c)
		}
	}
}

// AntiFlood 防刷屏中间件，抢角色时大家狂点按钮，太快的直接丢弃
func AntiFlood(maxPerSecond int) tele.MiddlewareFunc {
	var (
		mu       sync.Mutex
		lastCall = make(map[int64]time.Time)
	)

	interval := time.Second / time.Duration(maxPerSecond)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}

			now := time.Now()

			mu.Lock()
			last, exists := lastCall[user.ID]
			if exists && now.Sub(last) < interval {
				mu.Unlock()
				return nil
			}
			lastCall[user.ID] = now
			mu.Unlock()

			return next(c)
		}
	}
}
