package story

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"narrator/internal/model/story"
)

// StoryRepository 书架仓库接口
// 记录不存在时返回 mongo.ErrNoDocuments
type StoryRepository interface {
	Create(ctx context.Context, s *story.Story) error
	FindByID(ctx context.Context, id string) (*story.Story, error)
	List(ctx context.Context, filter story.Filter, limit, offset int) ([]*story.Story, int64, error)
	Update(ctx context.Context, id string, patch story.Patch) (*story.Story, error)
	Delete(ctx context.Context, id string) error
}

// StoryRepo 基于 MongoDB 的实现
type StoryRepo struct {
	coll *mongo.Collection
}

// NewStoryRepo 创建书架仓库
func NewStoryRepo(db *mongo.Database) *StoryRepo {
	var s story.Story
	return &StoryRepo{coll: db.Collection(s.Collection())}
}

// Create 创建故事
func (r *StoryRepo) Create(ctx context.Context, s *story.Story) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

// FindByID 根据ID查询
func (r *StoryRepo) FindByID(ctx context.Context, id string) (*story.Story, error) {
	var s story.Story
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List 按创建时间倒序分页查询
func (r *StoryRepo) List(ctx context.Context, f story.Filter, limit, offset int) ([]*story.Story, int64, error) {
	filter := bson.M{"deleted_at": nil}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.FavoritesOnly {
		filter["is_favorite"] = true
	}

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

	stories := make([]*story.Story, 0)
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

// Update 部分更新并返回更新后的文档
func (r *StoryRepo) Update(ctx context.Context, id string, patch story.Patch) (*story.Story, error) {
	fields := patch.Fields()
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s story.Story
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"id": id, "deleted_at": nil},
		bson.M{"$set": fields},
		opts,
	).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete 软删除
func (r *StoryRepo) Delete(ctx context.Context, id string) error {
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

// MemoryStoryRepo 内存实现，MongoDB 不可用时使用
type MemoryStoryRepo struct {
	mu    sync.RWMutex
	items map[string]*story.Story
	now   func() time.Time
}

// NewMemoryStoryRepo 创建内存仓库
func NewMemoryStoryRepo() *MemoryStoryRepo {
	return &MemoryStoryRepo{items: make(map[string]*story.Story), now: time.Now}
}

// Create 创建故事
func (r *MemoryStoryRepo) Create(_ context.Context, s *story.Story) error {
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
func (r *MemoryStoryRepo) FindByID(_ context.Context, id string) (*story.Story, error) {
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
func (r *MemoryStoryRepo) List(_ context.Context, f story.Filter, limit, offset int) ([]*story.Story, int64, error) {
	r.mu.RLock()
	all := make([]*story.Story, 0, len(r.items))
	for _, s := range r.items {
		if s.DeletedAt == nil && f.Match(s) {
			cp := *s
			all = append(all, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if offset >= len(all) {
		return all[:0], total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// Update 部分更新并返回更新后的文档
func (r *MemoryStoryRepo) Update(_ context.Context, id string, patch story.Patch) (*story.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	patch.Apply(s)
	s.UpdatedAt = r.now()
	cp := *s
	return &cp, nil
}

// Delete 软删除
func (r *MemoryStoryRepo) Delete(_ context.Context, id string) error {
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
