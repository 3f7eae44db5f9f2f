// Package keyboards 键盘按钮
package keyboards

import (
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// CatchKeyboard 刷新消息下的抢夺按钮
// token 绑定这一次刷新，旧消息上的按钮抢不到新刷新
func CatchKeyboard(token string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	btnCatch := markup.Data("🧤 Catch!", "catch_btn", token)
	markup.Inline(markup.Row(btnCatch))
	return markup
}

// StartKeyboard 私聊开始面板
func StartKeyboard(isAdmin bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	rows = append(rows, markup.Row(
		markup.Data("👤 My Profile", "profile"),
		markup.Data("🎁 Daily Reward", "daily"),
	))
	rows = append(rows, markup.Row(
		markup.Data("📦 My Collection", "collection_page", "0"),
		markup.Data("🏆 Leaderboard", "top"),
	))
	if isAdmin {
		rows = append(rows, markup.Row(
			markup.Data("⚙️ Admin Panel", "admin_panel"),
		))
	}

	markup.Inline(rows...)
	return markup
}

// AdminPanelKeyboard 管理面板
func AdminPanelKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	markup.Inline(
		markup.Row(
			markup.Data("📊 Stats", "admin_stats"),
			markup.Data("🎫 Codes", "admin_codes"),
		),
		markup.Row(
			markup.Data("🏆 Run Weekly", "admin_runweekly"),
			markup.Data("💾 Backup", "admin_backup"),
		),
		markup.Row(
			markup.Data("« Back", "back_start"),
		),
	)
	return markup
}

// TradeKeyboard 交易确认按钮，附交易 UUID
func TradeKeyboard(tradeUUID string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("✅ Accept", "trade_accept", tradeUUID),
			markup.Data("❌ Decline", "trade_decline", tradeUUID),
		),
	)
	return markup
}

// DuelKeyboard 决斗应战按钮，附邀约 ID
func DuelKeyboard(duelID string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("⚔️ Accept", "duel_accept", duelID),
			markup.Data("🛡 Decline", "duel_decline", duelID),
		),
	)
	return markup
}

// CollectionNavKeyboard 收藏翻页按钮，owner 锁定翻页权
func CollectionNavKeyboard(page, totalPages int, ownerID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if totalPages <= 1 {
		return markup
	}

	var row []tele.Btn
	if page > 0 {
		row = append(row, markup.Data("◀️", "collection_page", fmt.Sprintf("%d:%d", page-1, ownerID)))
	}
	row = append(row, markup.Data(fmt.Sprintf("· %d/%d ·", page+1, totalPages), "noop"))
	if page < totalPages-1 {
		row = append(row, markup.Data("▶️", "collection_page", fmt.Sprintf("%d:%d", page+1, ownerID)))
	}

	markup.Inline(markup.Row(row...))
	return markup
}

// CharacterListNavKeyboard 管理端角色列表翻页
func CharacterListNavKeyboard(page, totalPages int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if totalPages <= 1 {
		return markup
	}

	var row []tele.Btn
	if page > 0 {
		row = append(row, markup.Data("◀️", "charlist_page", fmt.Sprintf("%d", page-1)))
	}
	row = append(row, markup.Data(fmt.Sprintf("· %d/%d ·", page+1, totalPages), "noop"))
	if page < totalPages-1 {
		row = append(row, markup.Data("▶️", "charlist_page", fmt.Sprintf("%d", page+1)))
	}

	markup.Inline(markup.Row(row...))
	return markup
}
