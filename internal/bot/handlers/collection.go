package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
	"gorm.io/gorm"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/keyboards"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/bot/utils"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/repository"
	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

const collectionPageSize = 10

// Collection /collection 命令处理器
func Collection(c tele.Context) error {
	return sendCollectionPage(c, c.Sender().ID, 0, false)
}

// HandleCollectionPage 收藏翻页回调，只有本人能翻
func HandleCollectionPage(c tele.Context, page int, ownerID int64) error {
	if !utils.IsCallbackOwner(c, ownerID) {
		return utils.RespondNotOwner(c)
	}
	return sendCollectionPage(c, ownerID, page, true)
}

// View /view 查看单只角色详情
func View(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /view <character id>")
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

	owned, _ := repository.NewCollectionRepository().Has(c.Sender().ID, char.ID)
	ownedLine := "📭 Not in your collection yet."
	if owned {
		ownedLine = "✅ In your collection."
	}

	caption := fmt.Sprintf("%s *%s*\n🌍 _%s_\n%s %s\n\n%s",
		char.Rarity.Emoji(), char.Name, char.Anime,
		char.Rarity.Emoji(), char.Rarity.ShortName(), ownedLine)
	if char.IsExclusive() {
		caption += "\n💎 Exclusive character."
	}

	if char.HasImage() {
		photo := &tele.Photo{File: tele.FromURL(*char.ImageURL), Caption: caption}
		return c.Reply(photo, tele.ModeMarkdown)
	}
	return c.Reply(caption, tele.ModeMarkdown)
}

func sendCollectionPage(c tele.Context, userID int64, page int, edit bool) error {
	repo := repository.NewCollectionRepository()
	items, total, err := repo.GetPage(userID, page, collectionPageSize)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("load collection failed")
		return c.Send("❌ Could not load your collection.")
	}

	if total == 0 {
		return c.Send("📦 Your collection is empty. Hang around in groups and catch some characters!")
	}

	totalPages := int((total + collectionPageSize - 1) / collectionPageSize)
	if page >= totalPages {
		page = totalPages - 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 *Your Collection* (%d total)\n\n", total))
	for _, item := range items {
		marker := ""
		if item.IsCustom {
			marker = " 💎"
		}
		sb.WriteString(fmt.Sprintf("`#%d` %s *%s*%s\n└ _%s_\n",
			item.CharID, item.Rarity.Emoji(), item.Name, marker, item.Anime))
	}

	markup := keyboards.CollectionNavKeyboard(page, totalPages, userID)
	if edit {
		return c.Edit(sb.String(), markup, tele.ModeMarkdown)
	}
	return c.Send(sb.String(), markup, tele.ModeMarkdown)
}
