package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/mongo"

	"narrator/internal/model/story"
	"narrator/internal/pkg/ctxutil"
	"narrator/internal/pkg/id"
	"narrator/internal/pkg/prosody"
	storyRepo "narrator/internal/repository/story"
)

var (
	ErrStoryNotFound   = errors.New("故事不存在")
	ErrInvalidCategory = errors.New("无效的故事分类")
)

// 默认标题截取的字符数
const titleRunes = 50

// StoryService 书架服务接口
type StoryService interface {
	List(ctx context.Context, filter story.Filter, limit, offset int) (*ListStoriesResult, error)
	Get(ctx context.Context, storyID string) (*story.Story, error)

	// Create 保存故事，未给标题时取正文前 50 个字符
	Create(ctx context.Context, req *CreateStoryRequest) (*story.Story, error)

	// Update 部分更新，修改正文时重新计算词数
	Update(ctx context.Context, storyID string, patch story.Patch) (*story.Story, error)

	// ToggleFavorite 切换收藏状态
	ToggleFavorite(ctx context.Context, storyID string) (*story.Story, error)

	Delete(ctx context.Context, storyID string) error
}

// storyService 书架服务实现
type storyService struct {
	repo storyRepo.StoryRepository
}

// NewStoryService 创建书架服务
func NewStoryService(repo storyRepo.StoryRepository) StoryService {
	return &storyService{repo: repo}
}

// ListStoriesResult 列表结果
type ListStoriesResult struct {
	Stories []*story.Story `json:"stories"`
	Total   int64          `json:"total"`
}

// CreateStoryRequest 创建请求
type CreateStoryRequest struct {
	Title      string
	Content    string
	Category   story.Category // 为空时为 personal
	IsFavorite bool
	AudioURI   string
	Duration   float64
}

// List 列出故事
func (s *storyService) List(ctx context.Context, filter story.Filter, limit, offset int) (*ListStoriesResult, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	stories, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return &ListStoriesResult{Stories: stories, Total: total}, nil
}

// Get 获取故事
func (s *storyService) Get(ctx context.Context, storyID string) (*story.Story, error) {
	storyID, ok := id.Normalize(storyID)
	if !ok {
		return nil, ErrStoryNotFound
	}
	st, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return nil, s.mapErr(err, "find")
	}
	return st, nil
}

// Create 保存故事
func (s *storyService) Create(ctx context.Context, req *CreateStoryRequest) (*story.Story, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	category := req.Category
	if category == "" {
		category = story.CategoryPersonal
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle(req.Content)
	}

	st := &story.Story{
		ID:         id.New(),
		Title:      title,
		Content:    req.Content,
		Category:   category,
		IsFavorite: req.IsFavorite,
		WordCount:  prosody.WordCount(req.Content),
		AudioURI:   req.AudioURI,
		Duration:   req.Duration,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		ctxutil.Logger(ctx).Error().Err(err).Msg("failed to create story")
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	ctxutil.Logger(ctx).Info().Str("story_id", st.ID).Str("category", string(st.Category)).Int("words", st.WordCount).Msg("story saved")
	return st, nil
}

// Update 部分更新
func (s *storyService) Update(ctx context.Context, storyID string, patch story.Patch) (*story.Story, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, ErrContentRequired
		}
		n := prosody.WordCount(*patch.Content)
		patch.WordCount = &n
	}

	storyID, ok := id.Normalize(storyID)
	if !ok {
		return nil, ErrStoryNotFound
	}
	st, err := s.repo.Update(ctx, storyID, patch)
	if err != nil {
		return nil, s.mapErr(err, "update")
	}
	return st, nil
}

// ToggleFavorite 切换收藏状态
func (s *storyService) ToggleFavorite(ctx context.Context, storyID string) (*story.Story, error) {
	st, err := s.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}
	fav := !st.IsFavorite
	return s.Update(ctx, st.ID, story.Patch{IsFavorite: &fav})
}

// Delete 删除故事
func (s *storyService) Delete(ctx context.Context, storyID string) error {
	storyID, ok := id.Normalize(storyID)
	if !ok {
		return ErrStoryNotFound
	}
	if err := s.repo.Delete(ctx, storyID); err != nil {
		return s.mapErr(err, "delete")
	}
	return nil
}

func (s *storyService) mapErr(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrStoryNotFound
	}
	return fmt.Errorf("failed to %s story: %w", op, err)
}

// DefaultTitle 取正文前 50 个字符作为标题，超出时追加省略号
func DefaultTitle(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= titleRunes {
		return content
	}
	return string([]rune(content)[:titleRunes]) + "..."
}
