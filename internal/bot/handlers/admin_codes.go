package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

// GenCode /gencode 生成兑换码
// 形如 /gencode 500 10 7d char:42
func GenCode(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /gencode <coins> [uses] [7d] [char:<id>]")
	}

	coins, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || coins < 0 {
		return c.Reply("❌ Coins must be a non-negative number.")
	}

	req := &service.GenerateCodeRequest{
		Coins:     coins,
		CreatedBy: c.Sender().ID,
	}
	for _, arg := range args[1:] {
		switch {
		case strings.HasPrefix(arg, "char:"):
			id, err := strconv.ParseUint(strings.TrimPrefix(arg, "char:"), 10, 32)
			if err != nil {
				return c.Reply("❌ Invalid character id in char:<id>.")
			}
			v := uint(id)
			req.CharID = &v
		default:
			if days, ok := utils.ParseDays(arg); ok {
				req.ExpireDays = days
			} else if uses, err := strconv.Atoi(arg); err == nil && uses > 0 {
				req.MaxUses = uses
			} else {
				return c.Reply(fmt.Sprintf("❌ Unrecognized argument: %s", arg))
			}
		}
	}

	code, err := service.NewRedeemService().GenerateCode(req)
	if err != nil {
		if errors.Is(err, service.ErrCharacterGone) {
			return c.Reply("❌ That character doesn't exist.")
		}
		logger.Error().Err(err).Msg("generate code failed")
		return c.Reply("❌ Failed to generate code.")
	}

	text := fmt.Sprintf("🎫 Code created: `%s`\n💰 %d coins · %d use(s)", code.Code, code.Coins, code.MaxUses)
	if code.CharID != nil {
		text += fmt.Sprintf("\n💝 Bonus character: #%d", *code.CharID)
	}
	if code.ExpiresAt != nil {
		text += fmt.Sprintf("\n⌛ Expires %s UTC", utils.FormatTimeUTC(*code.ExpiresAt, "2006-01-02 15:04"))
	}
	return c.Reply(text, tele.ModeMarkdown)
}

// Codes /codes 列出全部兑换码
func Codes(c tele.Context) error {
	codes, err := service.NewRedeemService().ListCodes()
	if err != nil {
		logger.Error().Err(err).Msg("list codes failed")
		return c.Reply("❌ Could not list codes.")
	}
	if len(codes) == 0 {
		return c.Reply("📭 No codes yet. Create one with /gencode.")
	}

	var sb strings.Builder
	sb.WriteString("🎫 *Redeem Codes*\n\n")
	for _, code := range codes {
		status := "active"
		if code.IsExhausted() {
			status = "exhausted"
		} else if code.ExpiresAt != nil && utils.IsExpired(*code.ExpiresAt) {
			status = "expired"
		}
		sb.WriteString(fmt.Sprintf("`%s` — %d coins, %d/%d used, %s\n",
			code.Code, code.Coins, code.UsedCount, code.MaxUses, status))
	}
	return c.Reply(sb.String(), tele.ModeMarkdown)
}

// DelCode /delcode 删除兑换码
func DelCode(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /delcode <code>")
	}

	if err := service.NewRedeemService().DeleteCode(args[0]); err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			return c.Reply("❌ That code doesn't exist.")
		}
		logger.Error().Err(err).Msg("delete code failed")
		return c.Reply("❌ Failed to delete code.")
	}
	return c.Reply("🗑 Code deleted.")
}
