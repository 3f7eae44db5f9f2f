package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"
	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

// Profile /profile 命令处理器
func Profile(c tele.Context) error {
	user := c.Sender()
	cfg := config.Get()

	playerRepo := repository.NewPlayerRepository()
	player, err := playerRepo.EnsureExists(user.ID, user.Username, user.FirstName)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("load profile failed")
		return c.Send("❌ Could not load your profile.")
	}

	collRepo := repository.NewCollectionRepository()
	total, _ := collRepo.Count(user.ID)
	distinct, _ := collRepo.CountDistinct(user.ID)
	breakdown, _ := collRepo.RarityBreakdown(user.ID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 *%s*\n\n", player.DisplayName()))
	sb.WriteString(fmt.Sprintf("💰 %s: *%d*\n", cfg.Money, player.Coins))
	sb.WriteString(fmt.Sprintf("🧤 Catches: *%d*\n", player.Catches))
	sb.WriteString(fmt.Sprintf("📦 Collection: *%d* (%d unique)\n", total, distinct))
	sb.WriteString(fmt.Sprintf("🎲 Games: %dW / %dL\n", player.Wins, player.Losses))

	if len(breakdown) > 0 {
		sb.WriteString("\n*By rarity:*\n")
		for _, rarity := range models.AllRarities() {
			if count, ok := breakdown[string(rarity)]; ok {
				sb.WriteString(fmt.Sprintf("%s ×%d\n", string(rarity), count))
			}
		}
	}

	if pending, err := repository.NewTradeRepository().GetPendingFrom(user.ID); err == nil && len(pending) > 0 {
		sb.WriteString("\n🔄 You have an open trade proposal.\n")
	}

	if player.LastDaily != nil && !player.CanClaimDaily(time.Now().UTC()) {
		sb.WriteString(fmt.Sprintf("\n⏳ Next daily in %s",
			utils.FormatDuration(player.DailyRemaining(time.Now().UTC()))))
	}

	return c.Send(sb.String(), tele.ModeMarkdown)
}

// Badges /badges 定制奖励陈列
func Badges(c tele.Context) error {
	user := c.Sender()

	awards, err := repository.NewAwardRepository().ListByUser(user.ID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("load awards failed")
		return c.Send("❌ Could not load your badges.")
	}

	podium := 0
	if weeks, err := repository.NewRankRepository().GetUserWeeks(user.ID, 52); err == nil {
		for _, w := range weeks {
			if w.IsTop(3) {
				podium++
			}
		}
	}

	if len(awards) == 0 && podium == 0 {
		return c.Send("🏅 No badges yet. Top the weekly leaderboard or hit a coin milestone to earn exclusive characters!")
	}

	charRepo := repository.NewCharacterRepository()
	var sb strings.Builder
	sb.WriteString("🏅 *Your Exclusive Characters*\n\n")
	if podium > 0 {
		sb.WriteString(fmt.Sprintf("🥇 Podium finishes: *%d* week(s)\n\n", podium))
	}
	for _, award := range awards {
		name := "(deleted)"
		if char, err := charRepo.GetByID(award.CharID); err == nil {
			name = char.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		sb.WriteString(fmt.Sprintf("💎 *%s*\n└ %s · %s\n",
			name, award.Reason, award.AwardedAt.Format("2006-01-02")))
	}

	return c.Send(sb.String(), tele.ModeMarkdown)
}
