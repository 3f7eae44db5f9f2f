// Package imagecheck 图片 URL 校验客户端
//
// 管理员录入角色图片时先做一次 HEAD 探测，避免把死链或非图片
// 资源写进角色库，等到刷新时才在群里发图失败。
package imagecheck

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nikhilgurjar7605-collab/waifu-bot/pkg/logger"
)

var (
	ErrNotReachable = errors.New("image url not reachable")
	ErrNotAnImage   = errors.New("url does not point to an image")
	ErrTooLarge     = errors.New("image exceeds size limit")
)

// Telegram 图片消息上限 10MB，留点余量
const maxImageBytes = 9 * 1024 * 1024

// Client 图片校验客户端
type Client struct {
	httpClient *resty.Client
}

var (
	instance *Client
	once     sync.Once
)

// GetClient 获取校验客户端单例
func GetClient() *Client {
	once.Do(func() {
		instance = NewClient()
	})
	return instance
}

// NewClient 创建校验客户端
func NewClient() *Client {
	client := resty.New()
	client.SetTimeout(8 * time.Second)
	client.SetRetryCount(1)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetHeader("User-Agent", "WaifuBot/1.0 Go")

	return &Client{httpClient: client}
}

// Validate 校验图片 URL
func (c *Client) Validate(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ErrNotReachable
	}

	resp, err := c.httpClient.R().Head(url)
	if err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("image head request failed")
		return ErrNotReachable
	}
	if resp.StatusCode() != http.StatusOK {
		return ErrNotReachable
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		// 有些图床 HEAD 不回 Content-Type，按扩展名放行
		if !hasImageExt(url) {
			return ErrNotAnImage
		}
	}

	if length := resp.RawResponse.ContentLength; length > maxImageBytes {
		return ErrTooLarge
	}
	return nil
}

func hasImageExt(url string) bool {
	lower := strings.ToLower(url)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
