package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"narrator/internal/model/scan"
	"narrator/internal/model/settings"
	"narrator/internal/model/story"
)

// Model 需要管理索引的持久化模型
type Model interface {
	// Collection 返回集合名称
	Collection() string

	// EnsureIndexes 创建和维护索引
	EnsureIndexes(ctx context.Context, db *mongo.Database) error
}

// models scans、stories、voice_settings 三个集合
func models() []Model {
	return []Model{
		&scan.Scan{},
		&story.Story{},
		&settings.VoiceSettingsDoc{},
	}
}

// EnsureIndexes 创建所有集合的索引，启动时调用一次
// 遇到第一个错误即返回
func (c *Client) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, m := range models() {
		if err := m.EnsureIndexes(ctx, c.database); err != nil {
			return err
		}
	}
	return nil
}
