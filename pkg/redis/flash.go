package redis

import (
	"context"
	"time"

	"go.uber.org/zap"

	log "miniblog/pkg/logger"
)

const (
	// FlashKeyPrefix 闪现消息键前缀
	FlashKeyPrefix = "flash:"

	// FlashTTL 闪现消息过期时间（未被展示的消息10分钟后丢弃）
	FlashTTL = 10 * time.Minute
)

// Flash 一次性通知消息
// 重定向后在下一个渲染的页面上展示一次
type Flash struct {
	Level   string `json:"level"` // success / danger
	Message string `json:"message"`
}

// FlashStore 闪现消息存储接口
// 消息由handler显式写入、渲染时显式取出，不依赖全局可变状态
type FlashStore interface {
	// Push 追加消息到访客的消息队列
	Push(ctx context.Context, visitorKey string, flashes ...Flash) error

	// Pop 取出并清空访客的全部消息
	Pop(ctx context.Context, visitorKey string) ([]Flash, error)
}

// flashStore 闪现消息存储实现
type flashStore struct {
	client Client
}

// NewFlashStore 创建闪现消息存储
func NewFlashStore(client Client) FlashStore {
	return &flashStore{client: client}
}

// Push 追加消息
func (fs *flashStore) Push(ctx context.Context, visitorKey string, flashes ...Flash) error {
	if len(flashes) == 0 {
		return nil
	}

	key := FlashKeyPrefix + visitorKey

	// 先读出已有消息再整体写回（同一访客的并发请求极少）
	var existing []Flash
	if err := fs.client.GetJSON(ctx, key, &existing); err != nil && err != Nil {
		return err
	}

	existing = append(existing, flashes...)
	if err := fs.client.SetJSON(ctx, key, existing, FlashTTL); err != nil {
		log.Error("写入闪现消息失败", zap.Error(err))
		return err
	}
	return nil
}

// Pop 取出并清空消息
func (fs *flashStore) Pop(ctx context.Context, visitorKey string) ([]Flash, error) {
	key := FlashKeyPrefix + visitorKey

	var flashes []Flash
	err := fs.client.GetJSON(ctx, key, &flashes)
	if err != nil {
		if err == Nil {
			return nil, nil
		}
		return nil, err
	}

	if err := fs.client.Del(ctx, key); err != nil {
		log.Error("清空闪现消息失败", zap.Error(err))
		// 消息已取到，删除失败不影响本次渲染
	}
	return flashes, nil
}
