package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Story 书架中保存的文本
type Story struct {
	ID         string   `bson:"id" json:"id"`                   // 故事ID（UUID）
	Title      string   `bson:"title" json:"title"`             // 标题
	Content    string   `bson:"content" json:"content"`         // 正文
	Category   Category `bson:"category" json:"category"`       // 分类
	IsFavorite bool     `bson:"is_favorite" json:"is_favorite"` // 是否收藏
	WordCount  int      `bson:"word_count" json:"word_count"`   // 词数

	// 录音信息
	AudioURI string  `bson:"audio_uri,omitempty" json:"audio_uri,omitempty"`
	Duration float64 `bson:"duration,omitempty" json:"duration,omitempty"` // 秒

	// 时间戳
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Category 故事分类
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryFiction  Category = "fiction"
	CategoryPoetry   Category = "poetry"
	CategoryArticle  Category = "article"
	CategoryOther    Category = "other"
)

// Valid 是否为已知分类
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryFiction, CategoryPoetry, CategoryArticle, CategoryOther:
		return true
	}
	return false
}

// Filter 列表过滤条件
type Filter struct {
	Category      Category // 为空时不过滤
	FavoritesOnly bool
}

// Match 判断故事是否满足过滤条件
func (f Filter) Match(s *Story) bool {
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.FavoritesOnly && !s.IsFavorite {
		return false
	}
	return true
}

// Collection 返回集合名称
func (s *Story) Collection() string {
	return "stories"
}

// EnsureIndexes 创建和维护索引
func (s *Story) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_id").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "category", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_category_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "is_favorite", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_favorite_created"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// Patch 部分更新，nil 字段保持不变
type Patch struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Category   *Category `json:"category,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	AudioURI   *string   `json:"audio_uri,omitempty"`
	Duration   *float64  `json:"duration,omitempty"`
	WordCount  *int      `json:"-"` // 由服务层根据 Content 计算
}

// Apply 把补丁写入故事
func (p Patch) Apply(s *Story) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.IsFavorite != nil {
		s.IsFavorite = *p.IsFavorite
	}
	if p.AudioURI != nil {
		s.AudioURI = *p.AudioURI
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.WordCount != nil {
		s.WordCount = *p.WordCount
	}
}

// Fields 转为 $set 字段
func (p Patch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.IsFavorite != nil {
		fields["is_favorite"] = *p.IsFavorite
	}
	if p.AudioURI != nil {
		fields["audio_uri"] = *p.AudioURI
	}
	if p.Duration != nil {
		fields["duration"] = *p.Duration
	}
	if p.WordCount != nil {
		fields["word_count"] = *p.WordCount
	}
	return fields
}
