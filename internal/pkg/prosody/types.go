// Package prosody 韵律分析引擎
//
// 负责把朗读文本切分为句段、对句段做规则分类、生成韵律提示（停顿/重音/音高/语速/音量），
// 并把提示应用到语音参数上或序列化为 SSML。所有函数都是纯函数，不持有共享状态。
package prosody

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SentenceType 句子类型
type SentenceType string

const (
	SentenceStatement   SentenceType = "statement"   // 陈述句
	SentenceQuestion    SentenceType = "question"    // 疑问句
	SentenceExclamation SentenceType = "exclamation" // 感叹句
	SentenceListItem    SentenceType = "list-item"   // 列表项
)

// EmotionalTone 情感基调
type EmotionalTone string

const (
	ToneNeutral  EmotionalTone = "neutral"
	ToneExcited  EmotionalTone = "excited"
	ToneSerious  EmotionalTone = "serious"
	ToneSad      EmotionalTone = "sad"
	ToneDramatic EmotionalTone = "dramatic"
)

// ContentType 内容类型
type ContentType string

const (
	ContentNarrative ContentType = "narrative" // 叙述
	ContentDialogue  ContentType = "dialogue"  // 对话
	ContentTechnical ContentType = "technical" // 技术性内容（数字+单位）
	ContentList      ContentType = "list"      // 列表
)

// HintType 韵律提示类型
type HintType string

const (
	HintPause    HintType = "pause"
	HintEmphasis HintType = "emphasis"
	HintPitch    HintType = "pitch"
	HintRate     HintType = "rate"
	HintVolume   HintType = "volume"
)

// HintValue 提示取值，数字或字符串二选一
// 数字用于 rate/volume 倍率与停顿毫秒数，字符串用于音高百分比（如 "+10%"）与重音级别
type HintValue struct {
	num    float64
	text   string
	isText bool
}

// Number 创建数字取值
func Number(v float64) HintValue {
	return HintValue{num: v}
}

// Text 创建字符串取值
func Text(s string) HintValue {
	return HintValue{text: s, isText: true}
}

// Float 返回数字取值；字符串取值时 ok 为 false
func (v HintValue) Float() (float64, bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// IsText 是否为字符串取值
func (v HintValue) IsText() bool {
	return v.isText
}

// String 返回取值的文本形式
func (v HintValue) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON 数字编码为 JSON number，字符串编码为 JSON string
func (v HintValue) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON 解析 JSON number 或 string
func (v *HintValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("hint value must be a number or a string: %w", err)
	}
	*v = Number(f)
	return nil
}

// ProsodyHint 韵律提示
// Position 为句段内的字符（rune）偏移；仅 pause 与 emphasis 的位置有实际意义，
// pitch/rate/volume 作用于整个句段
type ProsodyHint struct {
	Type     HintType  `json:"type"`
	Position int       `json:"position"`
	Value    HintValue `json:"value"`
	Duration int       `json:"duration,omitempty"` // 停顿时长（毫秒），仅 pause
}

// TextSegment 句段
// 由 Engine.Analyze 生成后只读
type TextSegment struct {
	Text          string        `json:"text"`
	StartIndex    int           `json:"start_index"` // 在原文中的起始字符偏移
	EndIndex      int           `json:"end_index"`   // 结束字符偏移（不含）
	SentenceType  SentenceType  `json:"sentence_type"`
	EmotionalTone EmotionalTone `json:"emotional_tone"`
	ContentType   ContentType   `json:"content_type"`
	ProsodyHints  []ProsodyHint `json:"prosody_hints"`
}

// Pause 句段内的一次停顿
type Pause struct {
	Position int `json:"position"`
	Duration int `json:"duration"`
}

// 取值范围
const (
	MinIntensity       = 0.0
	MaxIntensity       = 1.0
	MinPauseMultiplier = 0.5
	MaxPauseMultiplier = 2.0
	MinPitch           = 0.5
	MaxPitch           = 2.0
	MinRate            = 0.5
	MaxRate            = 2.0
	MinVolume          = 0.0
	MaxVolume          = 1.0
)

// Settings 韵律设置
type Settings struct {
	Enabled           bool    `json:"enabled" bson:"enabled" mapstructure:"enabled"`
	Intensity         float64 `json:"intensity" bson:"intensity" mapstructure:"intensity"`                         // 提示强度 [0,1]
	PauseMultiplier   float64 `json:"pause_multiplier" bson:"pause_multiplier" mapstructure:"pause_multiplier"`    // 停顿倍率 [0.5,2]
	EmphasisDetection bool    `json:"emphasis_detection" bson:"emphasis_detection" mapstructure:"emphasis_detection"` // 是否识别重音词
	BreathingSounds   bool    `json:"breathing_sounds" bson:"breathing_sounds" mapstructure:"breathing_sounds"`
	NaturalPacing     bool    `json:"natural_pacing" bson:"natural_pacing" mapstructure:"natural_pacing"` // 长句中间插入换气停顿
}

// DefaultSettings 默认韵律设置
func DefaultSettings() Settings {
	return Settings{
		Enabled:           true,
		Intensity:         0.7,
		PauseMultiplier:   1.0,
		EmphasisDetection: true,
		BreathingSounds:   false,
		NaturalPacing:     true,
	}
}

// Normalize 把强度与停顿倍率钳制到合法范围
func (s Settings) Normalize() Settings {
	s.Intensity = clamp(s.Intensity, MinIntensity, MaxIntensity)
	s.PauseMultiplier = clamp(s.PauseMultiplier, MinPauseMultiplier, MaxPauseMultiplier)
	return s
}

// SpeechParams 语音参数
type SpeechParams struct {
	Pitch  float64 `json:"pitch" bson:"pitch"`
	Rate   float64 `json:"rate" bson:"rate"`
	Volume float64 `json:"volume" bson:"volume"`
}

// DefaultSpeechParams 默认语音参数
func DefaultSpeechParams() SpeechParams {
	return SpeechParams{Pitch: 1.0, Rate: 1.0, Volume: 1.0}
}

// Clamp 把三个参数钳制到合法范围
func (p SpeechParams) Clamp() SpeechParams {
	return SpeechParams{
		Pitch:  clamp(p.Pitch, MinPitch, MaxPitch),
		Rate:   clamp(p.Rate, MinRate, MaxRate),
		Volume: clamp(p.Volume, MinVolume, MaxVolume),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
