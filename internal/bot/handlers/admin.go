// Package handlers 管理员命令处理器
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"
	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/session"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/config"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/imagecheck"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/scheduler"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/utils"
)

// Usage /_usage 管理命令速查
func Usage(c tele.Context) error {
	text := "🛠 *Admin Commands*\n\n" +
		"*Characters*\n" +
		"`/addchar <name> | <anime> | <rarity> [| image url]`\n" +
		"`/delchar <id>`\n" +
		"`/editchar <id> <name|anime|rarity> <value>`\n" +
		"`/addimage <id> [url]` — no url: send the photo next\n" +
		"`/chars` — browse the catalog\n" +
		"`/searchchar <query>`\n\n" +
		"*Players*\n" +
		"`/givecoins <amount>` — reply to a user\n" +
		"`/givechar <id>` — reply to grant a catalog character\n" +
		"`/ban` / `/unban` — reply to a user\n" +
		"`/award <reason>` — reply to grant a custom character\n" +
		"`/awards` — recent award log\n\n" +
		"*Codes*\n" +
		"`/gencode <coins> [uses] [7d] [char:<id>]`\n" +
		"`/codes` · `/delcode <code>`\n\n" +
		"*System*\n" +
		"`/spawn` — force a spawn in this group\n" +
		"`/broadcast <text>` — DM all players\n" +
		"`/runweekly` — run the weekly snapshot now\n" +
		"`/backup` — backup the database\n" +
		"`/restore <file>` — restore from a backup\n" +
		"`/botstats` — global stats"

	return c.Send(text, tele.ModeMarkdown)
}

// AddChar /addchar 录入角色
func AddChar(c tele.Context) error {
	payload := strings.TrimSpace(c.Message().Payload)
	parts := strings.Split(payload, "|")
	if len(parts) < 3 {
		return c.Reply("Usage: /addchar <name> | <anime> | <rarity> [| image url]")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	rarity, ok := models.ParseRarity(parts[2])
	if !ok {
		return c.Reply("❌ Unknown rarity. Use: common, uncommon, rare, epic, legendary.")
	}

	char := &models.Character{
		Name:    parts[0],
		Anime:   parts[1],
		Rarity:  rarity,
		AddedBy: c.Sender().ID,
	}
	if len(parts) >= 4 && parts[3] != "" {
		if err := imagecheck.GetClient().Validate(parts[3]); err != nil {
			return c.Reply(fmt.Sprintf("❌ Image rejected: %v", err))
		}
		char.ImageURL = &parts[3]
	}

	if err := repository.NewCharacterRepository().Create(char); err != nil {
		logger.Error().Err(err).Str("name", char.Name).Msg("add character failed")
		return c.Reply("❌ Failed to add character.")
	}

	return c.Reply(fmt.Sprintf("✅ Added *%s* (`#%d`) %s from _%s_.",
		char.Name, char.ID, char.Rarity.Emoji(), char.Anime), tele.ModeMarkdown)
}

// DelChar /delchar 删除角色，连带清理收藏
func DelChar(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /delchar <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return c.Reply("❌ Invalid character id.")
	}

	repo := repository.NewCharacterRepository()
	char, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Reply("❌ Character not found.")
		}
		return c.Reply("❌ Something went wrong.")
	}

	if err := repo.Delete(uint(id)); err != nil {
		logger.Error().Err(err).Uint64("char_id", id).Msg("delete character failed")
		return c.Reply("❌ Failed to delete character.")
	}

	return c.Reply(fmt.Sprintf("🗑 Deleted *%s* and removed it from all collections.", char.Name), tele.ModeMarkdown)
}

// EditChar /editchar 修改角色字段
// 形如 /editchar 42 rarity epic 或 /editchar 42 name | New Name
func EditChar(c tele.Context) error {
	payload := strings.TrimSpace(c.Message().Payload)
	fields := strings.SplitN(payload, " ", 3)
	if len(fields) != 3 {
		return c.Reply("Usage: /editchar <id> <name|anime|rarity> <value>")
	}
	id, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return c.Reply("❌ Invalid character id.")
	}
	field := strings.ToLower(fields[1])
	value := strings.TrimSpace(strings.TrimPrefix(fields[2], "|"))
	value = strings.TrimSpace(value)

	updates := map[string]interface{}{}
	switch field {
	case "name":
		updates["name"] = value
	case "anime":
		updates["anime"] = value
	case "rarity":
		rarity, ok := models.ParseRarity(value)
		if !ok {
			return c.Reply("❌ Unknown rarity. Use: common, uncommon, rare, epic, legendary.")
		}
		updates["rarity"] = rarity
	default:
		return c.Reply("❌ Editable fields: name, anime, rarity.")
	}

	repo := repository.NewCharacterRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Reply("❌ Character not found.")
		}
		return c.Reply("❌ Something went wrong.")
	}
	if err := repo.UpdateFields(uint(id), updates); err != nil {
		logger.Error().Err(err).Uint64("char_id", id).Msg("edit character failed")
		return c.Reply("❌ Failed to update character.")
	}
	return c.Reply(fmt.Sprintf("✏️ Character `#%d` updated.", id), tele.ModeMarkdown)
}

// AddImage /addimage 命令处理器
//
// 带 URL 时直接校验并保存；只给 id 时进入等待状态，下一张照片就是图。
func AddImage(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 || len(args) > 2 {
		return c.Reply("Usage: /addimage <id> [url]\nWithout a url, send the photo as your next message.")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return c.Reply("❌ Invalid character id.")
	}

	if len(args) == 2 {
		if err := imagecheck.GetClient().Validate(args[1]); err != nil {
			return c.Reply(fmt.Sprintf("❌ Image rejected: %v", err))
		}
		return setCharImage(c, uint(id), args[1])
	}

	char, err := repository.NewCharacterRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Reply("❌ Character not found.")
		}
		return c.Reply("❌ Something went wrong.")
	}

	mgr := session.GetManager()
	mgr.SetState(c.Sender().ID, session.StateWaitingCharImage)
	mgr.SetData(c.Sender().ID, session.DataCharID, uint(id))
	return c.Reply(fmt.Sprintf("📷 Send me the photo for *%s* now, or /cancel.", char.Name), tele.ModeMarkdown)
}

// OnAdminPhoto 管理员照片消息
//
// 先认 caption 形如 "/addimage <id>"，没有 caption 再看会话状态。
// 用 Telegram 自己的 file_id 存图，省掉外链失效问题。
func OnAdminPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}

	caption := strings.TrimSpace(c.Message().Caption)
	if strings.HasPrefix(caption, "/addimage") {
		fields := strings.Fields(caption)
		if len(fields) != 2 {
			return c.Reply("Caption format: /addimage <id>")
		}
		id, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return c.Reply("❌ Invalid character id.")
		}
		return setCharImage(c, uint(id), photo.FileID)
	}

	mgr := session.GetManager()
	if mgr.GetState(c.Sender().ID) != session.StateWaitingCharImage {
		return nil
	}
	raw, ok := mgr.GetData(c.Sender().ID, session.DataCharID)
	mgr.ClearSession(c.Sender().ID)
	if !ok {
		return nil
	}
	charID, ok := raw.(uint)
	if !ok {
		return nil
	}
	return setCharImage(c, charID, photo.FileID)
}

func setCharImage(c tele.Context, charID uint, image string) error {
	repo := repository.NewCharacterRepository()
	char, err := repo.GetByID(charID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Reply("❌ Character not found.")
		}
		return c.Reply("❌ Something went wrong.")
	}

	if err := repo.SetImage(charID, image); err != nil {
		logger.Error().Err(err).Uint("char_id", charID).Msg("set image failed")
		return c.Reply("❌ Failed to save image.")
	}
	return c.Reply(fmt.Sprintf("🖼 Image saved for *%s*.", char.Name), tele.ModeMarkdown)
}

const charListPageSize = 15

// Chars /chars 角色目录分页，/chars custom 列出专属角色
func Chars(c tele.Context) error {
	if strings.TrimSpace(c.Message().Payload) == "custom" {
		return sendCustomList(c)
	}
	return sendCharList(c, 0, false)
}

func sendCustomList(c tele.Context) error {
	chars, err := repository.NewCharacterRepository().GetCustom()
	if err != nil {
		logger.Error().Err(err).Msg("list custom characters failed")
		return c.Send("❌ Could not load custom characters.")
	}
	if len(chars) == 0 {
		return c.Send("📭 No custom characters have been generated yet.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💎 *Exclusive Characters* (%d)\n\n", len(chars)))
	for _, char := range chars {
		owner := "unbound"
		if char.OwnerID != nil {
			owner = fmt.Sprintf("[owner](tg://user?id=%d)", *char.OwnerID)
		}
		sb.WriteString(fmt.Sprintf("`#%d` *%s*\n└ _%s_ · %s\n", char.ID, char.Name, char.Anime, owner))
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}

// Awards 最近发放的专属角色奖励
func Awards(c tele.Context) error {
	awards, err := repository.NewAwardRepository().ListAll(20)
	if err != nil {
		logger.Error().Err(err).Msg("list awards failed")
		return c.Send("❌ Could not load the award log.")
	}
	if len(awards) == 0 {
		return c.Send("📭 No exclusive characters have been awarded yet.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎖 *Recent Awards* (%d)\n\n", len(awards)))
	for _, a := range awards {
		sb.WriteString(fmt.Sprintf("`#%d` → [user](tg://user?id=%d)\n└ %s · %s · %s\n",
			a.CharID, a.UserID, a.Kind, a.Reason, a.AwardedAt.Format("2006-01-02")))
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}

// HandleCharListPage 角色目录翻页回调
func HandleCharListPage(c tele.Context, page int) error {
	return sendCharList(c, page, true)
}

func sendCharList(c tele.Context, page int, edit bool) error {
	chars, total, err := repository.NewCharacterRepository().ListPage(page, charListPageSize)
	if err != nil {
		logger.Error().Err(err).Msg("list characters failed")
		return c.Send("❌ Could not load the catalog.")
	}
	if total == 0 {
		return c.Send("📭 The catalog is empty. Add characters with /addchar.")
	}

	totalPages := int((total + charListPageSize - 1) / charListPageSize)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📚 *Character Catalog* (%d total)\n\n", total))
	for _, char := range chars {
		img := ""
		if char.HasImage() {
			img = " 🖼"
		}
		sb.WriteString(fmt.Sprintf("`#%d` %s %s · _%s_%s\n",
			char.ID, char.Rarity.Emoji(), char.Name, char.Anime, img))
	}

	markup := keyboards.CharacterListNavKeyboard(page, totalPages)
	if edit {
		return c.Edit(sb.String(), markup, tele.ModeMarkdown)
	}
	return c.Send(sb.String(), markup, tele.ModeMarkdown)
}

// SearchChar /searchchar 模糊搜索
func SearchChar(c tele.Context) error {
	query := strings.TrimSpace(c.Message().Payload)
	if query == "" {
		return c.Reply("Usage: /searchchar <name or anime>")
	}

	chars, err := repository.NewCharacterRepository().Search(query)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("search characters failed")
		return c.Reply("❌ Search failed.")
	}
	if len(chars) == 0 {
		return c.Reply("🔍 No characters matched.")
	}
	if len(chars) > 20 {
		chars = chars[:20]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 *Results for* `%s`\n\n", query))
	for _, char := range chars {
		sb.WriteString(fmt.Sprintf("`#%d` %s %s · _%s_\n",
			char.ID, char.Rarity.Emoji(), char.Name, char.Anime))
	}
	return c.Reply(sb.String(), tele.ModeMarkdown)
}

// GiveCoins /givecoins 加减金币，回复目标用户
func GiveCoins(c tele.Context) error {
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil {
		return c.Reply("Usage: reply to a user with /givecoins <amount> (negative to deduct)")
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: reply to a user with /givecoins <amount>")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount == 0 {
		return c.Reply("❌ Amount must be a non-zero number.")
	}

	target := reply.Sender
	if _, err := repository.NewPlayerRepository().EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong.")
	}
	if err := newEconomyService(c).GiveCoins(target.ID, amount); err != nil {
		logger.Error().Err(err).Int64("target", target.ID).Msg("give coins failed")
		return c.Reply("❌ Failed to adjust coins.")
	}

	verb := "Granted"
	if amount < 0 {
		verb = "Deducted"
	}
	return c.Reply(fmt.Sprintf("💰 %s *%d* coins for [%s](tg://user?id=%d).",
		verb, amount, target.FirstName, target.ID), tele.ModeMarkdown)
}

// Ban /ban 封禁玩家
func Ban(c tele.Context) error {
	return setBanned(c, true)
}

// Unban /unban 解封玩家
func Unban(c tele.Context) error {
	return setBanned(c, false)
}

func setBanned(c tele.Context, banned bool) error {
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil {
		return c.Reply("Reply to the user you want to (un)ban.")
	}
	target := reply.Sender

	repo := repository.NewPlayerRepository()
	if _, err := repo.EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong.")
	}
	if err := repo.SetBanned(target.ID, banned); err != nil {
		logger.Error().Err(err).Int64("target", target.ID).Msg("set banned failed")
		return c.Reply("❌ Failed to update ban status.")
	}

	if banned {
		// 封禁顺带作废其挂起的交易提议
		if _, err := repository.NewTradeRepository().CancelAllPending(target.ID); err != nil {
			logger.Warn().Err(err).Int64("target", target.ID).Msg("cancel pending trades failed")
		}
		return c.Reply(fmt.Sprintf("🚫 [%s](tg://user?id=%d) is banned from playing.",
			target.FirstName, target.ID), tele.ModeMarkdown)
	}
	return c.Reply(fmt.Sprintf("✅ [%s](tg://user?id=%d) is unbanned.",
		target.FirstName, target.ID), tele.ModeMarkdown)
}

// Award /award 管理员手动发放定制角色，回复目标用户
func Award(c tele.Context) error {
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil {
		return c.Reply("Usage: reply to a user with /award <reason>")
	}
	reason := strings.TrimSpace(c.Message().Payload)
	if reason == "" {
		reason = "Special grant"
	}

	target := reply.Sender
	if _, err := repository.NewPlayerRepository().EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong.")
	}

	result, err := service.NewGeneratorService().Generate(&service.GenerateRequest{
		UserID:    target.ID,
		FirstName: target.FirstName,
		Kind:      models.AwardKindAdmin,
		Reason:    reason,
		AddedBy:   c.Sender().ID,
	})
	if err != nil {
		logger.Error().Err(err).Int64("target", target.ID).Msg("manual award failed")
		return c.Reply("❌ Failed to generate the character.")
	}

	return c.Send(fmt.Sprintf(
		"💎 [%s](tg://user?id=%d) received an exclusive character!\n\n⭐ *%s*\n🌍 _%s_",
		target.FirstName, target.ID, result.Character.Name, result.Character.Anime), tele.ModeMarkdown)
}

// GiveChar /givechar 管理员把图鉴角色塞进玩家收藏，回复目标用户
func GiveChar(c tele.Context) error {
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil {
		return c.Reply("Usage: reply to a user with /givechar <character id>")
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: reply to a user with /givechar <character id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return c.Reply("❌ Character id must be a number.")
	}

	char, err := repository.NewCharacterRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Reply("❌ No character with that id.")
		}
		logger.Error().Err(err).Uint64("char_id", id).Msg("load character failed")
		return c.Reply("❌ Something went wrong.")
	}
	// 专属角色走 /award 生成，不能二次发放
	if char.IsCustom {
		return c.Reply("❌ Exclusive characters cannot be given away. Use /award instead.")
	}

	target := reply.Sender
	if _, err := repository.NewPlayerRepository().EnsureExists(target.ID, target.Username, target.FirstName); err != nil {
		return c.Reply("❌ Something went wrong.")
	}
	if err := repository.NewCollectionRepository().Add(target.ID, char.ID); err != nil {
		logger.Error().Err(err).Int64("target", target.ID).Uint("char_id", char.ID).Msg("give char failed")
		return c.Reply("❌ Failed to grant the character.")
	}

	return c.Send(fmt.Sprintf(
		"🎁 [%s](tg://user?id=%d) received *%s* (%s _%s_)!",
		target.FirstName, target.ID, char.Name, char.Rarity.Emoji(), char.Anime), tele.ModeMarkdown)
}

// Broadcast /broadcast 群发公告给所有玩家私聊
func Broadcast(c tele.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Reply("Usage: /broadcast <message>")
	}

	ids, err := repository.NewPlayerRepository().AllIDs()
	if err != nil {
		logger.Error().Err(err).Msg("load player ids failed")
		return c.Reply("❌ Could not load the player list.")
	}
	if len(ids) == 0 {
		return c.Reply("📭 No players to broadcast to.")
	}

	msg, _ := c.Bot().Reply(c.Message(), fmt.Sprintf("📣 Broadcasting to %d players...", len(ids)))

	sent, failed := 0, 0
	body := "📣 *Announcement*\n\n" + text
	for _, id := range ids {
		if _, err := c.Bot().Send(&tele.User{ID: id}, body, tele.ModeMarkdown); err != nil {
			// 没开私聊的用户收不到，跳过
			failed++
		} else {
			sent++
		}
		// 放慢一点，别撞 Telegram 的发送频率墙
		time.Sleep(50 * time.Millisecond)
	}

	summary := fmt.Sprintf("📣 Broadcast done: %d sent, %d unreachable.", sent, failed)
	logger.Info().Int("sent", sent).Int("failed", failed).Msg("broadcast finished")
	if msg != nil {
		_, err := c.Bot().Edit(msg, summary)
		return err
	}
	return c.Reply(summary)
}

// RunWeekly /runweekly 手动触发周榜快照
func RunWeekly(c tele.Context) error {
	sched := scheduler.Get()
	if sched == nil {
		return c.Reply("❌ Scheduler is not running.")
	}

	msg, _ := c.Bot().Reply(c.Message(), "⏳ Running weekly snapshot...")
	if err := sched.RunNow("weekly"); err != nil {
		return c.Reply(fmt.Sprintf("❌ %v", err))
	}
	// 榜单图缓存作废，下一次 /top 重画
	utils.CacheDelete(topCacheKey)
	if msg != nil {
		c.Bot().Edit(msg, "✅ Weekly snapshot finished, report sent.")
	}
	return nil
}

// Backup /backup 手动备份
func Backup(c tele.Context) error {
	result, err := service.NewBackupService().Backup(true)
	if err != nil {
		logger.Error().Err(err).Msg("manual backup failed")
		return c.Reply("❌ Backup failed.")
	}
	return c.Reply(fmt.Sprintf(
		"💾 Backup done: `%s`\n%d records, %.1f KB in %s",
		result.Filename, result.Records, float64(result.Size)/1024,
		result.Duration.Round(time.Millisecond)), tele.ModeMarkdown)
}

// Restore /restore 从备份文件恢复数据库
func Restore(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /restore <backup filename>\nFiles live in the backup directory, see /backup.")
	}
	// 只认文件名，不吃路径
	name := filepath.Base(args[0])
	path := filepath.Join(config.Get().Backup.Dir, name)

	msg, _ := c.Bot().Reply(c.Message(), "⏳ Restoring from backup...")
	if err := service.NewBackupService().Restore(path); err != nil {
		logger.Error().Err(err).Str("file", name).Msg("restore failed")
		return c.Reply(fmt.Sprintf("❌ Restore failed: %v", err))
	}
	// 恢复后进程内缓存全部不可信
	utils.CacheFlush()

	if msg != nil {
		c.Bot().Edit(msg, fmt.Sprintf("✅ Restored from `%s`.", name), tele.ModeMarkdown)
	}
	return nil
}

// BotStats /botstats 全局统计
func BotStats(c tele.Context) error {
	stats, err := service.NewStatsService().GetBotStats()
	if err != nil {
		logger.Error().Err(err).Msg("collect stats failed")
		return c.Reply("❌ Could not collect stats.")
	}

	return c.Reply(fmt.Sprintf(
		"📊 *Bot Stats*\n\n"+
			"Players: *%d*\n"+
			"Total catches: *%d*\n"+
			"Catalog characters: *%d*\n"+
			"Exclusive characters: *%d*\n"+
			"Weekly awards granted: *%d*",
		stats.Players, stats.TotalCatches, stats.Characters,
		stats.CustomChars, stats.WeeklyAwards), tele.ModeMarkdown)
}
