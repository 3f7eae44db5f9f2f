package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	botutils "github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/utils"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

// 决斗邀约存内存缓存就够了，没人接就让它过期
const duelTTL = 2 * time.Minute

type pendingDuel struct {
	FromID   int64
	FromName string
	ToID     int64
	ToName   string
	Bet      int64
}

// Duel /duel 命令处理器，回复目标用户使用
func Duel(c tele.Context) error {
	user := c.Sender()
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil || reply.Sender.IsBot {
		return c.Reply("Usage: reply to someone with /duel <bet>")
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: reply to someone with /duel <bet>")
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet <= 0 {
		return c.Reply("❌ Bet must be a positive number.")
	}

	target := reply.Sender
	if target.ID == user.ID {
		return c.Reply("❌ You cannot duel yourself.")
	}

	playerRepo := repository.NewPlayerRepository()
	challenger, err := playerRepo.EnsureExists(user.ID, user.Username, user.FirstName)
	if err != nil {
		return c.Reply("❌ Something went wrong, please try again later.")
	}
	if challenger.Banned {
		return c.Reply("🚫 You are banned from playing.")
	}
	if challenger.Coins < bet {
		return c.Reply("❌ You don't have that many coins.")
	}
	if _, err := playerRepo.EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong, please try again later.")
	}

	// 一个发起方同时只能挂一场
	lockKey := fmt.Sprintf("duel:lock:%d", user.ID)
	if !utils.CacheSetNX(lockKey, true, duelTTL) {
		return c.Reply("⏳ You already have a pending duel. Wait for it to settle or expire.")
	}

	id := uuid.NewString()
	utils.CacheSet("duel:"+id, &pendingDuel{
		FromID:   user.ID,
		FromName: user.FirstName,
		ToID:     target.ID,
		ToName:   target.FirstName,
		Bet:      bet,
	}, duelTTL)

	text := fmt.Sprintf(
		"⚔️ [%s](tg://user?id=%d) challenges [%s](tg://user?id=%d) to a duel for *%d* coins!\n\n"+
			"Winner takes the pot.",
		user.FirstName, user.ID, target.FirstName, target.ID, bet)
	return c.Send(text, keyboards.DuelKeyboard(id), tele.ModeMarkdown)
}

// HandleDuelAccept 决斗接受回调，只有被挑战方能按
func HandleDuelAccept(c tele.Context, id string) error {
	raw, found := utils.CacheGet("duel:" + id)
	if !found {
		return botutils.RespondToast(c, "This duel has expired.")
	}
	duel, ok := raw.(*pendingDuel)
	if !ok {
		return botutils.RespondToast(c, "This duel has expired.")
	}
	if c.Sender().ID != duel.ToID {
		return botutils.RespondNotOwner(c)
	}

	// 抢先标记结算，重复点击只算一次
	if !utils.CacheSetNX("duel:settled:"+id, true, duelTTL) {
		return botutils.RespondToast(c, "This duel is already settled.")
	}
	utils.CacheDelete("duel:" + id)
	utils.CacheDelete(fmt.Sprintf("duel:lock:%d", duel.FromID))

	result, err := newEconomyService(c).Duel(duel.FromID, duel.ToID, duel.Bet)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCoins) {
			c.Respond(&tele.CallbackResponse{Text: "Not enough coins on one side."})
			return c.Edit("💸 Duel called off — one side can no longer cover the bet.")
		}
		logger.Error().Err(err).Str("duel", id).Msg("duel settle failed")
		return botutils.RespondToast(c, "Something went wrong.")
	}

	winnerName, loserName := duel.FromName, duel.ToName
	if result.WinnerID == duel.ToID {
		winnerName, loserName = duel.ToName, duel.FromName
	}
	c.Respond(&tele.CallbackResponse{Text: "Duel settled! ⚔️"})
	return c.Edit(fmt.Sprintf(
		"⚔️ *Duel settled!*\n\n🏆 [%s](tg://user?id=%d) beats %s and takes *%d* coins!",
		winnerName, result.WinnerID, loserName, result.Pot), tele.ModeMarkdown)
}

// HandleDuelDecline 决斗拒绝回调
// 被挑战方按下是拒绝，挑战方按下是撤回
func HandleDuelDecline(c tele.Context, id string) error {
	raw, found := utils.CacheGet("duel:" + id)
	if !found {
		return botutils.RespondToast(c, "This duel has expired.")
	}
	duel, ok := raw.(*pendingDuel)
	if !ok {
		return botutils.RespondToast(c, "This duel has expired.")
	}

	sender := c.Sender().ID
	if sender != duel.ToID && sender != duel.FromID {
		return botutils.RespondNotOwner(c)
	}

	utils.CacheDelete("duel:" + id)
	utils.CacheDelete(fmt.Sprintf("duel:lock:%d", duel.FromID))

	if sender == duel.FromID {
		c.Respond(&tele.CallbackResponse{Text: "Duel withdrawn."})
		return c.Edit("↩️ Duel withdrawn by the challenger.")
	}
	c.Respond(&tele.CallbackResponse{Text: "Duel declined."})
	return c.Edit(fmt.Sprintf("🛡 %s declined the duel.", duel.ToName))
}
