package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// Daily /daily 命令处理器
func Daily(c tele.Context) error {
	user := c.Sender()
	econSvc := newEconomyService(c)

	result, err := econSvc.Daily(user.ID, user.Username, user.FirstName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDailyOnCooldown):
			player, perr := repository.NewPlayerRepository().GetByID(user.ID)
			if perr != nil {
				return c.Reply("⏳ Daily already claimed, come back later.")
			}
			return c.Reply(service.FormatDailyRemaining(player, nowUTC()))
		case errors.Is(err, service.ErrPlayerBanned):
			return c.Reply("🚫 You are banned from playing.")
		default:
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("daily failed")
			return c.Reply("❌ Something went wrong, please try again later.")
		}
	}

	return c.Reply(fmt.Sprintf("🎁 You got *%d* %s! Balance: *%d*",
		result.Amount, config.Get().Money, result.Balance), tele.ModeMarkdown)
}

// Balance /balance 命令处理器
func Balance(c tele.Context) error {
	user := c.Sender()
	player, err := repository.NewPlayerRepository().EnsureExists(user.ID, user.Username, user.FirstName)
	if err != nil {
		return c.Reply("❌ Could not load your balance.")
	}
	return c.Reply(fmt.Sprintf("💰 You have *%d* %s.", player.Coins, config.Get().Money), tele.ModeMarkdown)
}

// Coinflip /coinflip 命令处理器
func Coinflip(c tele.Context) error {
	user := c.Sender()
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /coinflip <bet>")
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet <= 0 {
		return c.Reply("❌ Bet must be a positive number.")
	}

	// 确保玩家记录存在
	if _, err := repository.NewPlayerRepository().EnsureExists(user.ID, user.Username, user.FirstName); err != nil {
		return c.Reply("❌ Something went wrong, please try again later.")
	}

	result, err := newEconomyService(c).Coinflip(user.ID, bet)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCoins):
			return c.Reply("❌ You don't have enough coins for that bet.")
		case errors.Is(err, service.ErrPlayerBanned):
			return c.Reply("🚫 You are banned from playing.")
		default:
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("coinflip failed")
			return c.Reply("❌ Something went wrong, please try again later.")
		}
	}

	if result.Won {
		return c.Reply(fmt.Sprintf("🪙 Heads! You won *%d* coins. Balance: *%d*",
			result.Amount, result.Balance), tele.ModeMarkdown)
	}
	return c.Reply(fmt.Sprintf("🪙 Tails! You lost *%d* coins. Balance: *%d*",
		result.Amount, result.Balance), tele.ModeMarkdown)
}

// Burn /burn 命令处理器
func Burn(c tele.Context) error {
	user := c.Sender()
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /burn <character id>\nFind ids in /collection.")
	}
	charID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return c.Reply("❌ Invalid character id.")
	}

	result, err := newEconomyService(c).Burn(user.ID, uint(charID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCharacterNotOwned):
			return c.Reply("❌ You don't own that character.")
		case errors.Is(err, service.ErrCannotBurnCustom):
			return c.Reply("💎 Exclusive characters cannot be burned.")
		default:
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("burn failed")
			return c.Reply("❌ Something went wrong, please try again later.")
		}
	}

	return c.Reply(fmt.Sprintf("🔥 Burned *%s* for *%d* coins.",
		result.Character.Name, result.Value), tele.ModeMarkdown)
}

// Gift /gift 命令处理器，回复目标用户使用
func Gift(c tele.Context) error {
	user := c.Sender()
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil {
		return c.Reply("Usage: reply to someone with /gift <amount>")
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: reply to someone with /gift <amount>")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount <= 0 {
		return c.Reply("❌ Amount must be a positive number.")
	}

	target := reply.Sender
	// 收礼方可能从没跟 Bot 互动过，先建档
	if _, err := repository.NewPlayerRepository().EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong, please try again later.")
	}

	if err := newEconomyService(c).Gift(user.ID, target.ID, amount); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotGiftSelf):
			return c.Reply("❌ You cannot gift coins to yourself.")
		case errors.Is(err, service.ErrInsufficientCoins):
			return c.Reply("❌ You don't have that many coins.")
		case errors.Is(err, service.ErrPlayerNotFound):
			return c.Reply("❌ That player doesn't exist yet.")
		default:
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("gift failed")
			return c.Reply("❌ Something went wrong, please try again later.")
		}
	}

	return c.Reply(fmt.Sprintf("💝 [%s](tg://user?id=%d) gifted *%d* coins to [%s](tg://user?id=%d)!",
		user.FirstName, user.ID, amount, target.FirstName, target.ID), tele.ModeMarkdown)
}

// Redeem /redeem 命令处理器
func Redeem(c tele.Context) error {
	user := c.Sender()
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /redeem <code>")
	}

	result, err := service.NewRedeemService().Redeem(user.ID, user.Username, user.FirstName, args[0])
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			return c.Reply("❌ That code doesn't exist.")
		case errors.Is(err, service.ErrCodeExpired):
			return c.Reply("⌛ That code has expired.")
		case errors.Is(err, service.ErrCodeExhausted):
			return c.Reply("❌ That code has been fully used.")
		case errors.Is(err, service.ErrCodeAlreadyUsed):
			return c.Reply("❌ You already redeemed that code.")
		case errors.Is(err, service.ErrPlayerBanned):
			return c.Reply("🚫 You are banned from playing.")
		default:
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("redeem failed")
			return c.Reply("❌ Something went wrong, please try again later.")
		}
	}

	text := fmt.Sprintf("🎫 Code redeemed! +*%d* coins.", result.Coins)
	if result.Character != nil {
		text += fmt.Sprintf("\n💝 Bonus character: *%s* (_%s_)",
			result.Character.Name, result.Character.Anime)
	}
	return c.Reply(text, tele.ModeMarkdown)
}

// newEconomyService 经济服务，私信回调接到当前 bot
func newEconomyService(c tele.Context) *service.EconomyService {
	svc := service.NewEconomyService()
	svc.SetNotifier(func(userID int64, text string) {
		chat := &tele.Chat{ID: userID}
		if _, err := c.Bot().Send(chat, text); err != nil {
			logger.Debug().Err(err).Int64("user_id", userID).Msg("milestone dm failed")
		}
	})
	return svc
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
