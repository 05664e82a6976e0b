package settings

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"narrator/internal/narrator"
)

// DefaultProfileID 单实例部署使用的设置文档ID
const DefaultProfileID = "default"

// VoiceSettingsDoc 朗读设置文档
type VoiceSettingsDoc struct {
	ProfileID string                 `bson:"profile_id" json:"profile_id"`
	Settings  narrator.VoiceSettings `bson:"settings" json:"settings"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (d *VoiceSettingsDoc) Collection() string {
	return "voice_settings"
}

// EnsureIndexes 创建和维护索引
func (d *VoiceSettingsDoc) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(d.Collection())
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "profile_id", Value: 1}},
		Options: options.Index().SetName("idx_profile_id").SetUnique(true),
	})
	return err
}
