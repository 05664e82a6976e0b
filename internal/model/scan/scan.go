package scan

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scan 内容提取历史记录
// 记录一次 OCR、PDF、网页或手动输入得到的文本，供用户再次朗读
type Scan struct {
	ID          string    `bson:"id" json:"id"`                                         // 记录ID（UUID）
	Type        ScanType  `bson:"type" json:"type"`                                     // 来源类型
	Content     string    `bson:"content" json:"content"`                               // 提取出的文本
	OriginalURL string    `bson:"original_url,omitempty" json:"original_url,omitempty"` // 网页来源地址
	Metadata    *Metadata `bson:"metadata,omitempty" json:"metadata,omitempty"`         // 元数据

	// 时间戳
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`                     // 创建时间
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`                     // 更新时间
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"` // 软删除时间
}

// Metadata 提取元数据
type Metadata struct {
	Title      string   `bson:"title,omitempty" json:"title,omitempty"`
	Confidence *float64 `bson:"confidence,omitempty" json:"confidence,omitempty"` // OCR 置信度 [0,1]
	Author     string   `bson:"author,omitempty" json:"author,omitempty"`
	Excerpt    string   `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
}

// ScanType 来源类型
type ScanType string

const (
	ScanTypeOCR    ScanType = "ocr"
	ScanTypePDF    ScanType = "pdf"
	ScanTypeWeb    ScanType = "web"
	ScanTypeManual ScanType = "manual"
)

// Valid 是否为已知类型
func (t ScanType) Valid() bool {
	switch t {
	case ScanTypeOCR, ScanTypePDF, ScanTypeWeb, ScanTypeManual:
		return true
	}
	return false
}

// Collection 返回集合名称
func (s *Scan) Collection() string {
	return "scans"
}

// EnsureIndexes 创建和维护索引
func (s *Scan) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_id").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "type", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_type_created"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
