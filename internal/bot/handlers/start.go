// Package handlers Bot 命令处理器
package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/session"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// Start /start 命令处理器
func Start(c tele.Context) error {
	cfg := config.Get()
	user := c.Sender()

	if c.Chat().Type != tele.ChatPrivate {
		return c.Send(fmt.Sprintf(
			"👋 Hi [%s](tg://user?id=%d)! I spawn characters here when the chat is active. DM me /start for your profile.",
			user.FirstName, user.ID), tele.ModeMarkdown)
	}

	repo := repository.NewPlayerRepository()
	if _, err := repo.EnsureExists(user.ID, user.Username, user.FirstName); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("ensure player failed")
		return c.Send("❌ Something went wrong, please try again later.")
	}

	text := fmt.Sprintf(
		"🌸 *Welcome to %s!*\n\n"+
			"I spawn anime characters in group chats while people talk. "+
			"Be the first to grab them, build your collection and climb the weekly leaderboard — "+
			"the top 3 earn one-of-a-kind custom characters!\n\n"+
			"Use /help for the full command list.",
		cfg.BotName)

	return c.Send(text, keyboards.StartKeyboard(cfg.IsAdmin(user.ID)), tele.ModeMarkdown)
}

// Help /help 命令处理器
func Help(c tele.Context) error {
	text := "📖 *Commands*\n\n" +
		"*Catching*\n" +
		"/catch <name> — catch the spawned character\n\n" +
		"*Collection*\n" +
		"/collection — browse your characters\n" +
		"/view <char id> — character details\n" +
		"/profile — your stats\n" +
		"/badges — your custom character awards\n\n" +
		"*Economy*\n" +
		"/daily — claim your daily coins\n" +
		"/balance — check your coins\n" +
		"/coinflip <bet> — double or nothing\n" +
		"/burn <char id> — burn a dupe for coins\n" +
		"/gift <amount> — gift coins (reply to someone)\n" +
		"/redeem <code> — redeem a code\n\n" +
		"*Trading*\n" +
		"/trade <your char id> [their char id] [+coins] — propose a swap, optionally sweetened with coins (reply to someone)\n" +
		"/duel <bet> — winner-takes-all duel (reply to someone)\n\n" +
		"*Leaderboard*\n" +
		"/top — catch leaderboard\n" +
		"/weekly — last week's snapshot"

	return c.Send(text, tele.ModeMarkdown)
}

// Cancel /cancel 清除会话状态
func Cancel(c tele.Context) error {
	session.GetManager().ClearSession(c.Sender().ID)
	return c.Send("✅ Cancelled.")
}
