package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"narrator/internal/model/scan"
	"narrator/internal/pkg/ctxutil"
	"narrator/internal/pkg/id"
	scanRepo "narrator/internal/repository/scan"
)

var (
	ErrScanNotFound     = errors.New("提取记录不存在")
	ErrContentRequired  = errors.New("Content is required")
	ErrInvalidScanType  = errors.New("无效的来源类型")
	ErrInvalidSourceURL = errors.New("无效的来源地址")
	ErrInvalidMetadata  = errors.New("置信度必须在 0 到 1 之间")
)

// ScanService 提取历史服务接口
type ScanService interface {
	// List 按时间倒序列出记录
	List(ctx context.Context, limit, offset int) (*ListScansResult, error)

	// Get 获取单条记录
	Get(ctx context.Context, scanID string) (*scan.Scan, error)

	// Create 校验并保存一条提取结果
	Create(ctx context.Context, req *CreateScanRequest) (*scan.Scan, error)

	// Delete 删除记录
	Delete(ctx context.Context, scanID string) error
}

// scanService 提取历史服务实现
type scanService struct {
	repo scanRepo.ScanRepository
}

// NewScanService 创建提取历史服务
func NewScanService(repo scanRepo.ScanRepository) ScanService {
	return &scanService{repo: repo}
}

// ListScansResult 列表结果
type ListScansResult struct {
	Scans []*scan.Scan `json:"scans"`
	Total int64        `json:"total"`
}

// CreateScanRequest 创建请求
type CreateScanRequest struct {
	Type        scan.ScanType
	Content     string
	OriginalURL string
	Metadata    *scan.Metadata
}

// List 按时间倒序列出记录
func (s *scanService) List(ctx context.Context, limit, offset int) (*ListScansResult, error) {
	scans, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return &ListScansResult{Scans: scans, Total: total}, nil
}

// Get 获取单条记录
func (s *scanService) Get(ctx context.Context, scanID string) (*scan.Scan, error) {
	scanID, ok := id.Normalize(scanID)
	if !ok {
		return nil, ErrScanNotFound
	}
	sc, err := s.repo.FindByID(ctx, scanID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find scan: %w", err)
	}
	return sc, nil
}

// Create 校验并保存一条提取结果
func (s *scanService) Create(ctx context.Context, req *CreateScanRequest) (*scan.Scan, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidScanType
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	if req.OriginalURL != "" && !validURL(req.OriginalURL) {
		return nil, ErrInvalidSourceURL
	}
	if m := req.Metadata; m != nil && m.Confidence != nil && (*m.Confidence < 0 || *m.Confidence > 1) {
		return nil, ErrInvalidMetadata
	}

	sc := &scan.Scan{
		ID:          id.New(),
		Type:        req.Type,
		Content:     req.Content,
		OriginalURL: req.OriginalURL,
		Metadata:    req.Metadata,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		ctxutil.Logger(ctx).Error().Err(err).Str("type", string(req.Type)).Msg("failed to create scan")
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}

	ctxutil.Logger(ctx).Info().Str("scan_id", sc.ID).Str("type", string(sc.Type)).Int("length", len(sc.Content)).Msg("scan saved")
	return sc, nil
}

// Delete 删除记录
func (s *scanService) Delete(ctx context.Context, scanID string) error {
	scanID, ok := id.Normalize(scanID)
	if !ok {
		return ErrScanNotFound
	}
	err := s.repo.Delete(ctx, scanID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrScanNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	return nil
}

// validURL 仅接受带主机名的绝对地址
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
