package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/utils"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/service"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// OnGroupText 群消息处理，按概率触发角色刷新
func OnGroupText(c tele.Context) error {
	chat := c.Chat()
	if chat == nil || (chat.Type != tele.ChatGroup && chat.Type != tele.ChatSuperGroup) {
		return nil
	}
	// 命令不参与刷新掷骰
	if strings.HasPrefix(c.Text(), "/") {
		return nil
	}

	spawnSvc := service.NewSpawnService()
	if !spawnSvc.ShouldSpawn(chat.ID) {
		return nil
	}

	char, err := spawnSvc.PickCharacter()
	if err != nil {
		if !errors.Is(err, service.ErrEmptyCatalog) {
			logger.Error().Err(err).Msg("pick character failed")
		}
		return nil
	}

	return announceSpawn(c, chat.ID, char)
}

// ForceSpawn /spawn 管理员强制刷新，跳过冷却与概率判定
// 登记仍走 upsert，旧的未抢刷新会被顶掉
func ForceSpawn(c tele.Context) error {
	chat := c.Chat()
	if chat == nil || (chat.Type != tele.ChatGroup && chat.Type != tele.ChatSuperGroup) {
		return c.Reply("This command only works in groups.")
	}

	char, err := service.NewSpawnService().PickCharacter()
	if err != nil {
		if errors.Is(err, service.ErrEmptyCatalog) {
			return c.Reply("📭 The catalog is empty. Add characters with /addchar first.")
		}
		logger.Error().Err(err).Msg("force spawn pick failed")
		return c.Reply("❌ Could not pick a character.")
	}
	return announceSpawn(c, chat.ID, char)
}

// announceSpawn 发刷新消息并登记
func announceSpawn(c tele.Context, groupID int64, char *models.Character) error {
	spawnSvc := service.NewSpawnService()

	caption := fmt.Sprintf(
		"%s *A wild character appeared!*\n\n"+
			"Rarity: %s\n"+
			"Be the first to press the button or /catch her name!",
		char.Rarity.Emoji(), string(char.Rarity))

	// 先发占位消息拿 message_id，再用真 token 绑按钮
	var msg *tele.Message
	var err error
	if char.HasImage() {
		photo := &tele.Photo{File: tele.FromURL(*char.ImageURL), Caption: caption}
		msg, err = c.Bot().Send(&tele.Chat{ID: groupID}, photo, tele.ModeMarkdown)
	} else {
		msg, err = c.Bot().Send(&tele.Chat{ID: groupID}, caption, tele.ModeMarkdown)
	}
	if err != nil {
		logger.Error().Err(err).Int64("group_id", groupID).Msg("spawn announce failed")
		return nil
	}

	reg, err := spawnSvc.RegisterSpawn(groupID, char, msg.ID)
	if err != nil {
		logger.Error().Err(err).Int64("group_id", groupID).Msg("register spawn failed")
		return nil
	}

	markup := keyboards.CatchKeyboard(reg.Token)
	if char.HasImage() {
		c.Bot().EditCaption(msg, caption, markup, tele.ModeMarkdown)
	} else {
		c.Bot().Edit(msg, caption, markup, tele.ModeMarkdown)
	}

	scheduleExpiry(c.Bot(), groupID, reg.Token, msg, char)
	return nil
}

// scheduleExpiry 捕获窗口关闭后改写刷新消息
func scheduleExpiry(b *tele.Bot, groupID int64, token string, msg *tele.Message, char *models.Character) {
	window := service.NewSpawnService().CatchWindow()
	time.AfterFunc(window, func() {
		expired, err := service.NewSpawnService().ExpireIfUnclaimed(groupID, token)
		if err != nil {
			logger.Error().Err(err).Int64("group_id", groupID).Msg("expire spawn failed")
			return
		}
		if !expired {
			return
		}
		text := fmt.Sprintf("💨 *%s* slipped away... better luck next time!", char.Name)
		if char.HasImage() {
			b.EditCaption(msg, text, tele.ModeMarkdown)
		} else {
			b.Edit(msg, text, tele.ModeMarkdown)
		}
	})
}

// Catch /catch 命令处理器，带名字的要求猜对
func Catch(c tele.Context) error {
	chat := c.Chat()
	user := c.Sender()
	spawnSvc := service.NewSpawnService()

	guess := strings.TrimSpace(strings.Join(c.Args(), " "))
	if guess != "" {
		_, char, err := spawnSvc.ActiveSpawn(chat.ID)
		if err != nil {
			return replyCatchError(c, err)
		}
		if !nameMatches(char.Name, guess) {
			return utils.SendAndDelete(c, "❌ Wrong name, try again!", 30)
		}
	}

	result, err := spawnSvc.Claim(chat.ID, user.ID, user.Username, user.FirstName, "")
	if err != nil {
		return replyCatchError(c, err)
	}
	return sendCatchSuccess(c, user, result)
}

// HandleCatchButton 抢夺按钮回调
func HandleCatchButton(c tele.Context, token string) error {
	user := c.Sender()
	result, err := service.NewSpawnService().Claim(c.Chat().ID, user.ID, user.Username, user.FirstName, token)
	if err != nil {
		if text, alert, known := catchFailureNotice(err); known {
			if alert {
				return utils.RespondAlert(c, text)
			}
			return utils.RespondToast(c, text)
		}
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("catch button failed")
		return utils.RespondToast(c, "Something went wrong.")
	}

	c.Respond(&tele.CallbackResponse{Text: "Caught! 🎉"})
	return sendCatchSuccess(c, user, result)
}

// catchFailureNotice 把抢夺失败翻成回调提示文案
// 角色被删与刷新已没同属落空，未知错误交回调用方记日志
func catchFailureNotice(err error) (text string, alert bool, known bool) {
	switch {
	case errors.Is(err, service.ErrAlreadyClaimed):
		return "Too slow! Someone got her first.", false, true
	case errors.Is(err, service.ErrNoActiveSpawn), errors.Is(err, service.ErrCharacterGone):
		return "This spawn is gone.", false, true
	case errors.Is(err, service.ErrPlayerBanned):
		return "You are banned from playing.", true, true
	default:
		return "", false, false
	}
}

// replyCatchError 群里的落空提示半分钟后自清，免得刷屏
func replyCatchError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNoActiveSpawn), errors.Is(err, service.ErrCharacterGone):
		return utils.SendAndDelete(c, "👀 There is nothing to catch right now.", 30)
	case errors.Is(err, service.ErrAlreadyClaimed):
		return utils.SendAndDelete(c, "💨 Too slow! Someone already caught her.", 30)
	case errors.Is(err, service.ErrPlayerBanned):
		return c.Reply("🚫 You are banned from playing.")
	default:
		logger.Error().Err(err).Msg("catch failed")
		return c.Reply("❌ Something went wrong, please try again later.")
	}
}

// sendCatchSuccess 捕获成功播报并改写刷新消息
func sendCatchSuccess(c tele.Context, user *tele.User, result *service.ClaimResult) error {
	char := result.Character

	text := fmt.Sprintf(
		"🎉 [%s](tg://user?id=%d) caught *%s*!\n\n"+
			"%s %s · _%s_\n"+
			"💰 +%d coins",
		user.FirstName, user.ID, char.Name,
		char.Rarity.Emoji(), string(char.Rarity), char.Anime,
		result.Reward)
	if result.Duplicate {
		text += "\n📎 Duplicate — consider /burn to turn it into coins."
	}

	// 抢到后撤掉刷新消息上的按钮
	if result.MessageID != 0 {
		msg := &tele.Message{ID: result.MessageID, Chat: c.Chat()}
		claimed := fmt.Sprintf("✅ *%s* was caught by %s!", char.Name, user.FirstName)
		if char.HasImage() {
			c.Bot().EditCaption(msg, claimed, tele.ModeMarkdown)
		} else {
			c.Bot().Edit(msg, claimed, tele.ModeMarkdown)
		}
	}

	return c.Send(text, tele.ModeMarkdown)
}

// nameMatches 名字猜测判定，大小写不敏感，允许猜任一词
func nameMatches(actual, guess string) bool {
	actual = strings.ToLower(actual)
	guess = strings.ToLower(guess)
	if actual == guess {
		return true
	}
	if strings.Contains(actual, guess) && len(guess) >= 3 {
		return true
	}
	for _, word := range strings.Fields(actual) {
		if word == guess {
			return true
		}
	}
	return false
}
