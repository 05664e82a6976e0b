package narrator

import (
	"context"
	"sync"

	"narrator/internal/pkg/prosody"
	"narrator/internal/pkg/voiceprofile"
)

// VoiceSettings 朗读设置
// Start 时整体复制一份，运行中的修改只影响之后的句段
type VoiceSettings struct {
	Language    string           `json:"language" bson:"language" mapstructure:"language"`
	AppLanguage string           `json:"app_language" bson:"app_language" mapstructure:"app_language"`
	Pitch       float64          `json:"pitch" bson:"pitch" mapstructure:"pitch"`
	Rate        float64          `json:"rate" bson:"rate" mapstructure:"rate"`
	Volume      float64          `json:"volume" bson:"volume" mapstructure:"volume"`
	VoiceID     string           `json:"voice_id,omitempty" bson:"voice_id,omitempty" mapstructure:"voice_id"`
	Personality voiceprofile.ID  `json:"personality,omitempty" bson:"personality,omitempty" mapstructure:"personality"`
	Prosody     prosody.Settings `json:"prosody" bson:"prosody" mapstructure:"prosody"`
}

// DefaultVoiceSettings 默认设置
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Language:    "en-US",
		AppLanguage: "en",
		Pitch:       1.0,
		Rate:        1.0,
		Volume:      1.0,
		Personality: voiceprofile.Professionnel,
		Prosody:     prosody.DefaultSettings(),
	}
}

// Normalize 钳制数值并补齐空字段
func (v VoiceSettings) Normalize() VoiceSettings {
	if v.Language == "" {
		v.Language = "en-US"
	}
	if v.AppLanguage == "" {
		v.AppLanguage = "en"
	}
	p := v.BaseParams()
	v.Pitch, v.Rate, v.Volume = p.Pitch, p.Rate, p.Volume
	v.Prosody = v.Prosody.Normalize()
	return v
}

// BaseParams 返回钳制后的基础语音参数
func (v VoiceSettings) BaseParams() prosody.SpeechParams {
	return prosody.SpeechParams{Pitch: v.Pitch, Rate: v.Rate, Volume: v.Volume}.Clamp()
}

// ProfileParams 返回叠加人设倍率后的基础参数
// 仅在开启韵律且人设存在时叠加
func (v VoiceSettings) ProfileParams() prosody.SpeechParams {
	base := v.BaseParams()
	if !v.Prosody.Enabled || v.Personality == "" {
		return base
	}
	if p, ok := voiceprofile.Get(v.Personality); ok {
		return voiceprofile.Apply(base, p)
	}
	return base
}

// SettingsStore 设置持久化
type SettingsStore interface {
	Load(ctx context.Context) (VoiceSettings, error)
	Save(ctx context.Context, v VoiceSettings) (VoiceSettings, error)
}

// MemoryStore 内存中的 SettingsStore
type MemoryStore struct {
	mu sync.RWMutex
	v  VoiceSettings
}

// NewMemoryStore 以默认设置初始化
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{v: DefaultVoiceSettings()}
}

// Load 见 SettingsStore
func (m *MemoryStore) Load(_ context.Context) (VoiceSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v, nil
}

// Save 见 SettingsStore，写入前钳制
func (m *MemoryStore) Save(_ context.Context, v VoiceSettings) (VoiceSettings, error) {
	v = v.Normalize()
	m.mu.Lock()
	m.v = v
	m.mu.Unlock()
	return v, nil
}
