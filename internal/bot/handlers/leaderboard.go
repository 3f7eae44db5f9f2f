package handlers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/imggen"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

const topCacheKey = "leaderboard:image"

// Top /top 命令处理器，发排行榜图片卡
// 榜单图缓存两分钟，群里刷 /top 不会每次都重画
func Top(c tele.Context) error {
	if cached, found := utils.CacheGet(topCacheKey); found {
		if data, ok := cached.([]byte); ok {
			photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(data))}
			return c.Send(photo)
		}
	}

	players, err := repository.NewPlayerRepository().GetTopByCatches(10)
	if err != nil {
		logger.Error().Err(err).Msg("load leaderboard failed")
		return c.Send("❌ Could not load the leaderboard.")
	}
	if len(players) == 0 {
		return c.Send("🏆 Nobody has caught anything yet. Be the first!")
	}

	items := make([]imggen.RankData, 0, len(players))
	for i, p := range players {
		items = append(items, imggen.RankData{
			Rank:     i + 1,
			Username: p.DisplayName(),
			Catches:  p.Catches,
			Coins:    p.Coins,
		})
	}

	data, err := imggen.GenerateLeaderboard(imggen.LeaderboardConfig{
		Title:       "🏆 Catch Leaderboard",
		Subtitle:    fmt.Sprintf("Week %s", utils.WeekID(time.Now())),
		Items:       items,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("render leaderboard failed")
		// 渲染失败退化成文字榜
		return sendTextLeaderboard(c, items)
	}

	utils.CacheSet(topCacheKey, data, 2*time.Minute)
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(data))}
	return c.Send(photo)
}

func sendTextLeaderboard(c tele.Context, items []imggen.RankData) error {
	var sb strings.Builder
	sb.WriteString("🏆 *Catch Leaderboard*\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for _, item := range items {
		prefix := fmt.Sprintf("%d.", item.Rank)
		if item.Rank <= len(medals) {
			prefix = medals[item.Rank-1]
		}
		sb.WriteString(fmt.Sprintf("%s %s — %d catches\n", prefix, item.Username, item.Catches))
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}

// Weekly /weekly 上周快照查询
func Weekly(c tele.Context) error {
	week := utils.PrevWeekID(time.Now())
	ranks, err := repository.NewRankRepository().GetWeek(week)
	if err != nil {
		logger.Error().Err(err).Str("week", week).Msg("load weekly snapshot failed")
		return c.Send("❌ Could not load the weekly snapshot.")
	}
	if len(ranks) == 0 {
		return c.Send(fmt.Sprintf("📭 No snapshot recorded for %s yet.", week))
	}

	playerRepo := repository.NewPlayerRepository()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Weekly Snapshot — %s*\n\n", week))
	medals := []string{"🥇", "🥈", "🥉"}
	for _, rank := range ranks {
		name := fmt.Sprintf("player %d", rank.UserID)
		if p, err := playerRepo.GetByID(rank.UserID); err == nil {
			name = p.DisplayName()
		}
		prefix := fmt.Sprintf("%d.", rank.Rank)
		if rank.Rank <= len(medals) {
			prefix = medals[rank.Rank-1]
		}
		sb.WriteString(fmt.Sprintf("%s %s — %d catches\n", prefix, name, rank.Catches))
	}
	sb.WriteString("\n💎 Top 3 with a qualifying streak earn exclusive characters!")

	return c.Send(sb.String(), tele.ModeMarkdown)
}
