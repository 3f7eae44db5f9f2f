// Package handlers 回调处理器
package handlers

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// OnCallback 回调查询处理器
//
// telebot 的 Data() 生成的回调格式是 "\f{unique}|{data}"，
// 去掉前缀后按 "|" 拆出动作与参数。
func OnCallback(c tele.Context) error {
	data := c.Callback().Data
	if len(data) > 0 && data[0] == '\f' {
		data = data[1:]
	}

	parts := strings.SplitN(data, "|", 2)
	action := parts[0]
	param := ""
	if len(parts) > 1 {
		param = parts[1]
	}

	logger.Debug().Str("action", action).Str("param", param).Msg("callback received")

	switch action {
	case "catch_btn":
		return HandleCatchButton(c, param)

	case "collection_page":
		// 数据形如 "page:owner"，StartKeyboard 的旧格式只有页码
		fields := strings.SplitN(param, ":", 2)
		page, err := strconv.Atoi(fields[0])
		if err != nil || page < 0 {
			page = 0
		}
		owner := c.Sender().ID
		if len(fields) == 2 {
			if id, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				owner = id
			}
		}
		return HandleCollectionPage(c, page, owner)

	case "charlist_page":
		page, err := strconv.Atoi(param)
		if err != nil || page < 0 {
			page = 0
		}
		return HandleCharListPage(c, page)

	case "trade_accept":
		return HandleTradeAccept(c, param)
	case "trade_decline":
		return HandleTradeDecline(c, param)

	case "duel_accept":
		return HandleDuelAccept(c, param)
	case "duel_decline":
		return HandleDuelDecline(c, param)

	case "profile":
		return Profile(c)
	case "daily":
		return Daily(c)
	case "top":
		return Top(c)

	case "admin_panel":
		if !config.Get().IsAdmin(c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Admins only.", ShowAlert: true})
		}
		return c.Edit("⚙️ *Admin Panel*", keyboards.AdminPanelKeyboard(), tele.ModeMarkdown)
	case "admin_stats":
		if !config.Get().IsAdmin(c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Admins only.", ShowAlert: true})
		}
		return BotStats(c)
	case "admin_codes":
		if !config.Get().IsAdmin(c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Admins only.", ShowAlert: true})
		}
		return Codes(c)
	case "admin_runweekly":
		if !config.Get().IsAdmin(c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Admins only.", ShowAlert: true})
		}
		return RunWeekly(c)
	case "admin_backup":
		if !config.Get().IsAdmin(c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Admins only.", ShowAlert: true})
		}
		return Backup(c)

	case "back_start":
		return c.Edit("🌸 Back to the main menu.",
			keyboards.StartKeyboard(config.Get().IsAdmin(c.Sender().ID)))

	case "noop":
		return c.Respond(&tele.CallbackResponse{})

	default:
		logger.Warn().Str("action", action).Msg("unknown callback")
		return c.Respond(&tele.CallbackResponse{Text: "Unknown action."})
	}
}
