package settings

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"narrator/internal/model/settings"
	"narrator/internal/narrator"
)

// SettingsRepo 朗读设置仓库，实现 narrator.SettingsStore
// 文档不存在时 Load 返回 defaults
type SettingsRepo struct {
	coll      *mongo.Collection
	profileID string
	defaults  narrator.VoiceSettings
}

var _ narrator.SettingsStore = (*SettingsRepo)(nil)

// NewSettingsRepo 创建设置仓库
func NewSettingsRepo(db *mongo.Database, defaults narrator.VoiceSettings) *SettingsRepo {
	var d settings.VoiceSettingsDoc
	return &SettingsRepo{
		coll:      db.Collection(d.Collection()),
		profileID: settings.DefaultProfileID,
		defaults:  defaults.Normalize(),
	}
}

// Load 读取设置
func (r *SettingsRepo) Load(ctx context.Context) (narrator.VoiceSettings, error) {
	var d settings.VoiceSettingsDoc
	err := r.coll.FindOne(ctx, bson.M{"profile_id": r.profileID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r.defaults, nil
	}
	if err != nil {
		return narrator.VoiceSettings{}, err
	}
	return d.Settings.Normalize(), nil
}

// Save 钳制后写入，不存在则创建
func (r *SettingsRepo) Save(ctx context.Context, v narrator.VoiceSettings) (narrator.VoiceSettings, error) {
	v = v.Normalize()
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"profile_id": r.profileID},
		bson.M{"$set": bson.M{
			"settings":   v,
			"updated_at": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return narrator.VoiceSettings{}, err
	}
	return v, nil
}
