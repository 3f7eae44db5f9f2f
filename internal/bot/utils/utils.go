// Package utils Bot 工具函数
package utils

import (
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

// DeleteAfter 定时删除消息
func DeleteAfter(b *tele.Bot, msg *tele.Message, seconds int) {
	if msg == nil || b == nil {
		return
	}
	go func() {
		time.Sleep(time.Duration(seconds) * time.Second)
		if err := b.Delete(msg); err != nil {
			logger.Debug().Err(err).Msg("delete message failed")
		}
	}()
}

// SendAndDelete 发送消息并定时删除
func SendAndDelete(c tele.Context, text string, seconds int, opts ...interface{}) error {
	msg, err := c.Bot().Send(c.Chat(), text, opts...)
	if err != nil {
		return err
	}
	DeleteAfter(c.Bot(), msg, seconds)
	return nil
}

// IsCallbackOwner 检查回调是否来自指定用户
// 交易确认按钮只有被邀请方能点
func IsCallbackOwner(c tele.Context, userID int64) bool {
	return c.Sender().ID == userID
}

// RespondNotOwner 回复非目标用户的提示
func RespondNotOwner(c tele.Context) error {
	return c.Respond(&tele.CallbackResponse{
		Text:      "❌ This button is not for you!",
		ShowAlert: true,
	})
}

// RespondAlert 弹窗回复回调
func RespondAlert(c tele.Context, text string) error {
	return c.Respond(&tele.CallbackResponse{
		Text:      text,
		ShowAlert: true,
	})
}

// RespondToast 轻提示回复回调
func RespondToast(c tele.Context, text string) error {
	return c.Respond(&tele.CallbackResponse{Text: text})
}
