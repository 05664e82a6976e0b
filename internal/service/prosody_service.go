package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"narrator/internal/narrator"
	"narrator/internal/pkg/cache"
	"narrator/internal/pkg/ctxutil"
	"narrator/internal/pkg/id"
	"narrator/internal/pkg/metrics"
	"narrator/internal/pkg/prosody"
	"narrator/internal/pkg/storage"
	"narrator/internal/pkg/voiceprofile"
)

var (
	ErrProfileNotFound    = errors.New("朗读人设不存在")
	ErrExportNotFound     = errors.New("导出文件不存在")
	ErrExportKeyInvalid   = errors.New("导出文件路径非法")
	ErrStorageUnavailable = errors.New("存储服务未配置")
)

// SSMLExportPrefix SSML 导出文件前缀
const SSMLExportPrefix = "ssml/"

// ProsodyService 韵律分析服务接口
type ProsodyService interface {
	// Analyze 切分并分析文本，结果按文本与设置缓存
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error)

	// GenerateSSML 生成 SSML 文档，Export 为 true 时写入存储
	GenerateSSML(ctx context.Context, req *SSMLRequest) (*SSMLResult, error)

	// OpenExport 读取已导出的 SSML
	OpenExport(ctx context.Context, key string) (io.ReadCloser, error)

	// SpeechParams 计算每个句段最终的语音参数（先叠加人设，再叠加韵律）
	SpeechParams(ctx context.Context, req *SpeechParamsRequest) (*SpeechParamsResult, error)

	// Profiles 人设目录
	Profiles() []voiceprofile.Profile

	// Profile 根据ID获取人设
	Profile(profileID voiceprofile.ID) (*voiceprofile.Profile, error)

	// Recommend 根据文本推荐人设
	Recommend(text string) (*voiceprofile.Profile, error)
}

// prosodyService 韵律分析服务实现
type prosodyService struct {
	cache    cache.Cache
	cacheTTL time.Duration
	storage  storage.Storage // 可为 nil，此时不支持导出
	settings narrator.SettingsStore
	metrics  *metrics.Metrics
	group    singleflight.Group
	now      func() time.Time
}

// NewProsodyService 创建韵律分析服务
func NewProsodyService(
	c cache.Cache,
	cacheTTL time.Duration,
	store storage.Storage,
	settings narrator.SettingsStore,
	m *metrics.Metrics,
) ProsodyService {
	if cacheTTL <= 0 {
		cacheTTL = cache.AnalysisCacheTTL
	}
	if m == nil {
		m = metrics.Default()
	}
	return &prosodyService{
		cache:    c,
		cacheTTL: cacheTTL,
		storage:  store,
		settings: settings,
		metrics:  m,
		now:      time.Now,
	}
}

// AnalyzeRequest 分析请求
type AnalyzeRequest struct {
	Text     string
	Language string            // 为空时使用已保存设置的语言
	Settings *prosody.Settings // 为空时使用已保存的韵律设置
}

// AnalyzeResult 分析结果
type AnalyzeResult struct {
	Language string                `json:"language"`
	Settings prosody.Settings      `json:"settings"`
	Segments []prosody.TextSegment `json:"segments"`
	Cached   bool                  `json:"cached"`
}

// Analyze 切分并分析文本
func (s *prosodyService) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error) {
	vs, err := s.resolve(ctx, req.Language, req.Settings)
	if err != nil {
		return nil, err
	}

	key := cache.AnalysisCacheKey(req.Text, vs.Language, vs.Prosody)
	var segments []prosody.TextSegment
	if s.cache != nil {
		err := s.cache.Get(ctx, key, &segments)
		switch {
		case err == nil:
			s.metrics.CacheLookup(ctx, true)
			return &AnalyzeResult{Language: vs.Language, Settings: vs.Prosody, Segments: segments, Cached: true}, nil
		case !errors.Is(err, cache.ErrMiss):
			ctxutil.Logger(ctx).Warn().Err(err).Str("key", key).Msg("analysis cache read failed")
		}
		s.metrics.CacheLookup(ctx, false)
	}

	// 相同文本的并发请求只分析一次
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		segs := narrator.BuildSegments(req.Text, vs)
		if segs == nil {
			segs = []prosody.TextSegment{}
		}
		if s.cache != nil {
			if err := s.cache.Set(context.WithoutCancel(ctx), key, segs, s.cacheTTL); err != nil {
				ctxutil.Logger(ctx).Warn().Err(err).Str("key", key).Msg("analysis cache write failed")
			}
		}
		return segs, nil
	})
	segments = v.([]prosody.TextSegment)

	return &AnalyzeResult{Language: vs.Language, Settings: vs.Prosody, Segments: segments}, nil
}

// SSMLRequest SSML 生成请求
type SSMLRequest struct {
	Text     string
	Language string
	Settings *prosody.Settings
	Export   bool
}

// SSMLResult SSML 生成结果
type SSMLResult struct {
	SSML     string `json:"ssml"`
	Segments int    `json:"segments"`
	Key      string `json:"key,omitempty"` // 导出时的存储 key
	URL      string `json:"url,omitempty"` // 导出时的访问地址
}

// GenerateSSML 生成 SSML 文档
func (s *prosodyService) GenerateSSML(ctx context.Context, req *SSMLRequest) (*SSMLResult, error) {
	analysis, err := s.Analyze(ctx, &AnalyzeRequest{Text: req.Text, Language: req.Language, Settings: req.Settings})
	if err != nil {
		return nil, err
	}

	doc := prosody.NewEngine(analysis.Settings).GenerateSSML(analysis.Segments)
	result := &SSMLResult{SSML: doc, Segments: len(analysis.Segments)}
	if !req.Export {
		return result, nil
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	key := s.exportKey()
	url, err := s.storage.Put(ctx, key, strings.NewReader(doc), storage.ContentType(key))
	if err != nil {
		ctxutil.Logger(ctx).Error().Err(err).Str("key", key).Msg("failed to export ssml")
		return nil, fmt.Errorf("failed to export ssml: %w", err)
	}
	result.Key = key
	result.URL = url

	ctxutil.Logger(ctx).Info().Str("key", key).Int("segments", result.Segments).Msg("ssml exported")
	return result, nil
}

// exportKey 生成导出路径：ssml/{yyyy}/{mm}/{dd}/{uuid}.ssml
func (s *prosodyService) exportKey() string {
	return fmt.Sprintf("%s%s/%s.ssml", SSMLExportPrefix, s.now().Format("2006/01/02"), id.New())
}

// OpenExport 读取已导出的 SSML，只允许访问 ssml/ 前缀下的对象
func (s *prosodyService) OpenExport(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	cleaned, err := storage.CleanKey(key)
	if err != nil || !strings.HasPrefix(cleaned, SSMLExportPrefix) {
		return nil, ErrExportKeyInvalid
	}

	rc, err := s.storage.Get(ctx, cleaned)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return rc, nil
}

// SpeechParamsRequest 语音参数计算请求
type SpeechParamsRequest struct {
	Text        string
	Settings    *narrator.VoiceSettings // 为空时使用已保存设置
	Personality voiceprofile.ID         // 非空时覆盖设置中的人设
}

// SegmentParams 单个句段的朗读参数
type SegmentParams struct {
	Index  int                  `json:"index"`
	Text   string               `json:"text"`
	Params prosody.SpeechParams `json:"params"`
	Pauses []prosody.Pause      `json:"pauses"`
}

// SpeechParamsResult 语音参数计算结果
type SpeechParamsResult struct {
	Base     prosody.SpeechParams `json:"base"`
	Segments []SegmentParams      `json:"segments"`
}

// SpeechParams 计算每个句段最终的语音参数
func (s *prosodyService) SpeechParams(ctx context.Context, req *SpeechParamsRequest) (*SpeechParamsResult, error) {
	var vs narrator.VoiceSettings
	if req.Settings != nil {
		vs = *req.Settings
	} else {
		loaded, err := s.loadSettings(ctx)
		if err != nil {
			return nil, err
		}
		vs = loaded
	}
	if req.Personality != "" {
		if _, ok := voiceprofile.Get(req.Personality); !ok {
			return nil, ErrProfileNotFound
		}
		vs.Personality = req.Personality
	}
	vs = vs.Normalize()

	analysis, err := s.Analyze(ctx, &AnalyzeRequest{Text: req.Text, Language: vs.Language, Settings: &vs.Prosody})
	if err != nil {
		return nil, err
	}

	base := vs.ProfileParams()
	engine := prosody.NewEngine(vs.Prosody)
	out := make([]SegmentParams, 0, len(analysis.Segments))
	for i, seg := range analysis.Segments {
		params := base
		if vs.Prosody.Enabled {
			params = engine.ApplyProsodyToSpeech(base, seg)
		}
		pauses := engine.PausesForSegment(seg)
		if pauses == nil {
			pauses = []prosody.Pause{}
		}
		out = append(out, SegmentParams{Index: i, Text: seg.Text, Params: params, Pauses: pauses})
	}
	return &SpeechParamsResult{Base: base, Segments: out}, nil
}

// Profiles 人设目录
func (s *prosodyService) Profiles() []voiceprofile.Profile {
	return voiceprofile.All()
}

// Profile 根据ID获取人设
func (s *prosodyService) Profile(profileID voiceprofile.ID) (*voiceprofile.Profile, error) {
	p, ok := voiceprofile.Get(profileID)
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// Recommend 根据文本推荐人设
func (s *prosodyService) Recommend(text string) (*voiceprofile.Profile, error) {
	return s.Profile(voiceprofile.Recommend(text))
}

// resolve 合并请求参数与已保存设置
func (s *prosodyService) resolve(ctx context.Context, language string, override *prosody.Settings) (narrator.VoiceSettings, error) {
	vs := narrator.DefaultVoiceSettings()
	if language == "" || override == nil {
		loaded, err := s.loadSettings(ctx)
		if err != nil {
			return narrator.VoiceSettings{}, err
		}
		vs = loaded
	}
	if language != "" {
		vs.Language = language
	}
	if override != nil {
		vs.Prosody = *override
	}
	return vs.Normalize(), nil
}

func (s *prosodyService) loadSettings(ctx context.Context) (narrator.VoiceSettings, error) {
	if s.settings == nil {
		return narrator.DefaultVoiceSettings(), nil
	}
	vs, err := s.settings.Load(ctx)
	if err != nil {
		return narrator.VoiceSettings{}, fmt.Errorf("failed to load voice settings: %w", err)
	}
	return vs, nil
}
