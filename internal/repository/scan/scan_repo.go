package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"narrator/internal/model/scan"
)

// ScanRepository 提取历史仓库接口
// 记录不存在时返回 mongo.ErrNoDocuments
type ScanRepository interface {
	Create(ctx context.Context, s *scan.Scan) error
	FindByID(ctx context.Context, id string) (*scan.Scan, error)
	List(ctx context.Context, limit, offset int) ([]*scan.Scan, int64, error)
	Delete(ctx context.Context, id string) error
}

// ScanRepo 基于 MongoDB 的实现
type ScanRepo struct {
	coll *mongo.Collection
}

// NewScanRepo 创建提取历史仓库
func NewScanRepo(db *mongo.Database) *ScanRepo {
	var s scan.Scan
	return &ScanRepo{coll: db.Collection(s.Collection())}
}

// Create 创建记录
func (r *ScanRepo) Create(ctx context.Context, s *scan.Scan) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

// FindByID 根据ID查询
func (r *ScanRepo) FindByID(ctx context.Context, id string) (*scan.Scan, error) {
	var s scan.Scan
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List 按创建时间倒序分页查询，limit<=0 表示不限制
func (r *ScanRepo) List(ctx context.Context, limit, offset int) ([]*scan.Scan, int64, error) {
	filter := bson.M{"deleted_at": nil}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	scans := make([]*scan.Scan, 0)
	if err := cursor.All(ctx, &scans); err != nil {
		return nil, 0, err
	}
	return scans, total, nil
}

// Delete 软删除
func (r *ScanRepo) Delete(ctx context.Context, id string) error {
	now := time.Now()
	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id, "deleted_at": nil},
		bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MemoryScanRepo 内存实现，MongoDB 不可用时使用
type MemoryScanRepo struct {
	mu    sync.RWMutex
	items map[string]*scan.Scan
	now   func() time.Time
}

// NewMemoryScanRepo 创建内存仓库
func NewMemoryScanRepo() *MemoryScanRepo {
	return &MemoryScanRepo{items: make(map[string]*scan.Scan), now: time.Now}
}

// Create 创建记录
func (r *MemoryScanRepo) Create(_ context.Context, s *scan.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

// FindByID 根据ID查询
func (r *MemoryScanRepo) FindByID(_ context.Context, id string) (*scan.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok || s.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

// List 按创建时间倒序分页查询
func (r *MemoryScanRepo) List(_ context.Context, limit, offset int) ([]*scan.Scan, int64, error) {
	r.mu.RLock()
	all := make([]*scan.Scan, 0, len(r.items))
	for _, s := range r.items {
		if s.DeletedAt == nil {
			cp := *s
			all = append(all, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, limit, offset), int64(len(all)), nil
}

// Delete 软删除
func (r *MemoryScanRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.DeletedAt != nil {
		return mongo.ErrNoDocuments
	}
	now := r.now()
	s.DeletedAt = &now
	s.UpdatedAt = now
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
