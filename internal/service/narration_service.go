package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"narrator/internal/narrator"
	"narrator/internal/pkg/prosody"
	"narrator/internal/pkg/speech"
	"narrator/internal/pkg/voiceprofile"
)

var (
	ErrNothingToNarrate = errors.New("文本中没有可朗读的句子")
	ErrUnknownProfile   = errors.New("未知的朗读人设")
)

// NarrationService 服务端朗读预览
// 进程内同一时刻只有一个朗读任务
type NarrationService interface {
	// Start 开始朗读，未给设置时使用已保存的设置
	Start(ctx context.Context, req *StartNarrationRequest) (*StartNarrationResult, error)

	Stop() bool
	Pause() bool
	Resume() bool
	Status() narrator.Status

	// Subscribe 订阅状态更新与任务事件
	Subscribe() (<-chan narrator.Message, func())

	// GetSettings 读取已保存的设置
	GetSettings(ctx context.Context) (narrator.VoiceSettings, error)

	// UpdateSettings 合并保存设置，正在进行的任务从下一句开始生效
	UpdateSettings(ctx context.Context, patch *SettingsPatch) (narrator.VoiceSettings, error)

	// Voices 列出引擎音色
	Voices(ctx context.Context, language string) ([]speech.Voice, error)

	Close()
}

// narrationService 朗读服务实现
type narrationService struct {
	engine      speech.Engine
	sequencer   *narrator.Sequencer
	broadcaster *narrator.Broadcaster
	settings    narrator.SettingsStore
}

// NewNarrationService 创建朗读服务
// 状态更新同时写入日志并广播给订阅者
func NewNarrationService(
	engine speech.Engine,
	settings narrator.SettingsStore,
	broadcaster *narrator.Broadcaster,
	opts narrator.Options,
) NarrationService {
	sinks := narrator.MultiSink{narrator.LogSink{Logger: log.Logger}, broadcaster}
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}
	opts.Sink = sinks

	return &narrationService{
		engine:      engine,
		sequencer:   narrator.New(engine, opts),
		broadcaster: broadcaster,
		settings:    settings,
	}
}

// StartNarrationRequest 开始朗读请求
type StartNarrationRequest struct {
	Text     string
	Settings *narrator.VoiceSettings
}

// StartNarrationResult 开始朗读结果
type StartNarrationResult struct {
	RunID    string                `json:"run_id"`
	Segments []prosody.TextSegment `json:"segments"`
}

// Start 开始朗读
// 任务生命周期独立于请求，ctx 只用于读取设置
func (s *narrationService) Start(ctx context.Context, req *StartNarrationRequest) (*StartNarrationResult, error) {
	var vs narrator.VoiceSettings
	if req.Settings != nil {
		vs = *req.Settings
	} else {
		loaded, err := s.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		vs = loaded
	}

	runID, err := s.sequencer.Start(context.Background(), req.Text, vs)
	if errors.Is(err, narrator.ErrEmptyText) {
		return nil, ErrNothingToNarrate
	}
	if err != nil {
		return nil, err
	}
	return &StartNarrationResult{RunID: runID, Segments: s.sequencer.Segments()}, nil
}

func (s *narrationService) Stop() bool {
	return s.sequencer.Stop()
}

func (s *narrationService) Pause() bool {
	return s.sequencer.Pause()
}

func (s *narrationService) Resume() bool {
	return s.sequencer.Resume()
}

func (s *narrationService) Status() narrator.Status {
	return s.sequencer.Status()
}

func (s *narrationService) Subscribe() (<-chan narrator.Message, func()) {
	return s.broadcaster.Subscribe()
}

// GetSettings 读取已保存的设置
func (s *narrationService) GetSettings(ctx context.Context) (narrator.VoiceSettings, error) {
	vs, err := s.settings.Load(ctx)
	if err != nil {
		return narrator.VoiceSettings{}, fmt.Errorf("failed to load voice settings: %w", err)
	}
	return vs, nil
}

// SettingsPatch 设置的部分更新，nil 字段保持原值
type SettingsPatch struct {
	Language    *string           `json:"language,omitempty"`
	AppLanguage *string           `json:"app_language,omitempty"`
	Pitch       *float64          `json:"pitch,omitempty"`
	Rate        *float64          `json:"rate,omitempty"`
	Volume      *float64          `json:"volume,omitempty"`
	VoiceID     *string           `json:"voice_id,omitempty"`
	Personality *voiceprofile.ID  `json:"personality,omitempty"`
	Prosody     *prosody.Settings `json:"prosody,omitempty"` // 整体替换
}

// Apply 合并到已有设置
func (p *SettingsPatch) Apply(v narrator.VoiceSettings) narrator.VoiceSettings {
	if p.Language != nil {
		v.Language = *p.Language
	}
	if p.AppLanguage != nil {
		v.AppLanguage = *p.AppLanguage
	}
	if p.Pitch != nil {
		v.Pitch = *p.Pitch
	}
	if p.Rate != nil {
		v.Rate = *p.Rate
	}
	if p.Volume != nil {
		v.Volume = *p.Volume
	}
	if p.VoiceID != nil {
		v.VoiceID = *p.VoiceID
	}
	if p.Personality != nil {
		v.Personality = *p.Personality
	}
	if p.Prosody != nil {
		v.Prosody = *p.Prosody
	}
	return v
}

// UpdateSettings 合并保存设置
func (s *narrationService) UpdateSettings(ctx context.Context, patch *SettingsPatch) (narrator.VoiceSettings, error) {
	if patch.Personality != nil && *patch.Personality != "" {
		if _, ok := voiceprofile.Get(*patch.Personality); !ok {
			return narrator.VoiceSettings{}, ErrUnknownProfile
		}
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return narrator.VoiceSettings{}, err
	}
	saved, err := s.settings.Save(ctx, patch.Apply(current))
	if err != nil {
		return narrator.VoiceSettings{}, fmt.Errorf("failed to save voice settings: %w", err)
	}

	if s.sequencer.UpdateSettings(saved) {
		log.Debug().Msg("voice settings applied to active narration")
	}
	return saved, nil
}

// Voices 列出引擎音色
func (s *narrationService) Voices(ctx context.Context, language string) ([]speech.Voice, error) {
	return s.engine.Voices(ctx, language)
}

// Close 停止朗读并释放订阅
func (s *narrationService) Close() {
	s.sequencer.Close()
}
