package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/utils"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

const tradeUsage = "Usage: reply to someone with /trade <your char id> [their char id] [+coins]"

// parseTradeArgs 解析 /trade 参数
// 末位带 + 前缀的是发起方搭头的金币数，其余是角色 id
func parseTradeArgs(args []string) (fromCharID uint, toCharID *uint, coins int64, err error) {
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "+") {
		v, perr := strconv.ParseInt(args[n-1][1:], 10, 64)
		if perr != nil || v <= 0 {
			return 0, nil, 0, fmt.Errorf("bad coin amount %q", args[n-1])
		}
		coins = v
		args = args[:n-1]
	}
	if len(args) < 1 || len(args) > 2 {
		return 0, nil, 0, errors.New("expected 1 or 2 character ids")
	}
	from, perr := strconv.ParseUint(args[0], 10, 32)
	if perr != nil {
		return 0, nil, 0, fmt.Errorf("bad character id %q", args[0])
	}
	if len(args) == 2 {
		id, perr := strconv.ParseUint(args[1], 10, 32)
		if perr != nil {
			return 0, nil, 0, fmt.Errorf("bad character id %q", args[1])
		}
		v := uint(id)
		toCharID = &v
	}
	return uint(from), toCharID, coins, nil
}

// Trade /trade 命令处理器，回复目标用户使用
// /trade <自己的角色 id> [对方的角色 id] [+金币]
func Trade(c tele.Context) error {
	user := c.Sender()
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil || reply.Sender.IsBot {
		return c.Reply(tradeUsage)
	}
	fromCharID, toCharID, coins, err := parseTradeArgs(c.Args())
	if err != nil {
		return c.Reply(tradeUsage)
	}

	target := reply.Sender
	if _, err := repository.NewPlayerRepository().EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong, please try again later.")
	}

	trade, err := service.NewTradeService().CreateTrade(&service.CreateTradeRequest{
		FromUser:   user.ID,
		ToUser:     target.ID,
		FromCharID: fromCharID,
		ToCharID:   toCharID,
		Coins:      coins,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotTradeSelf):
			return c.Reply("❌ You cannot trade with yourself.")
		case errors.Is(err, service.ErrCharacterNotOwned):
			return c.Reply("❌ You don't own that character.")
		case errors.Is(err, service.ErrCharacterGone):
			return c.Reply("❌ That character doesn't exist.")
		case errors.Is(err, service.ErrCustomNotTrade):
			return c.Reply("💎 Exclusive characters cannot be traded.")
		case errors.Is(err, service.ErrInsufficientCoins):
			return c.Reply("❌ You don't have that many coins.")
		default:
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("create trade failed")
			return c.Reply("❌ Something went wrong, please try again later.")
		}
	}

	charRepo := repository.NewCharacterRepository()
	fromChar, _ := charRepo.GetByID(fromCharID)
	offer := fmt.Sprintf("*%s*", fromChar.Name)
	if coins > 0 {
		offer += fmt.Sprintf(" and *%d* coins", coins)
	}
	want := "nothing — it's a gift!"
	if toCharID != nil {
		if toChar, err := charRepo.GetByID(*toCharID); err == nil {
			want = fmt.Sprintf("*%s*", toChar.Name)
		}
	}

	text := fmt.Sprintf(
		"🔄 [%s](tg://user?id=%d) proposes a trade to [%s](tg://user?id=%d):\n\n"+
			"Gives: %s\nWants: %s",
		user.FirstName, user.ID, target.FirstName, target.ID, offer, want)

	return c.Send(text, keyboards.TradeKeyboard(trade.UUID), tele.ModeMarkdown)
}

// HandleTradeAccept 交易接受回调
func HandleTradeAccept(c tele.Context, tradeUUID string) error {
	user := c.Sender()

	if _, err := service.NewTradeService().Accept(tradeUUID, user.ID); err != nil {
		return respondTradeError(c, err)
	}

	c.Respond(&tele.CallbackResponse{Text: "Trade completed! 🎉"})
	return c.Edit("✅ Trade completed! Check your /collection.")
}

// HandleTradeDecline 交易拒绝回调
// 被邀请方按下是拒绝，发起方按下是撤回
func HandleTradeDecline(c tele.Context, tradeUUID string) error {
	user := c.Sender()
	svc := service.NewTradeService()

	err := svc.Decline(tradeUUID, user.ID)
	if errors.Is(err, service.ErrNotTradeTarget) {
		if svc.Cancel(tradeUUID, user.ID) == nil {
			c.Respond(&tele.CallbackResponse{Text: "Trade withdrawn."})
			return c.Edit("↩️ Trade withdrawn by the initiator.")
		}
	}
	if err != nil {
		return respondTradeError(c, err)
	}

	c.Respond(&tele.CallbackResponse{Text: "Trade declined."})
	return c.Edit("❌ Trade declined.")
}

func respondTradeError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotTradeTarget):
		return utils.RespondNotOwner(c)
	case errors.Is(err, service.ErrTradeSettled):
		return utils.RespondToast(c, "This trade is already settled.")
	case errors.Is(err, service.ErrTradeNotFound):
		return utils.RespondToast(c, "This trade no longer exists.")
	case errors.Is(err, service.ErrCharacterNotOwned):
		return utils.RespondAlert(c, "One of the characters changed hands, trade is off.")
	case errors.Is(err, service.ErrInsufficientCoins):
		return utils.RespondAlert(c, "The proposer can no longer cover the coins, trade is off.")
	default:
		logger.Error().Err(err).Msg("trade settle failed")
		return utils.RespondToast(c, "Something went wrong.")
	}
}
