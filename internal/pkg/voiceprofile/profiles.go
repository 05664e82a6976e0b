// Package voiceprofile 朗读人设目录
//
// 目录内容内嵌在 profiles.yaml 中，启动时解析一次，之后只读。
package voiceprofile

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"narrator/internal/pkg/prosody"
)

// ID 人设标识
type ID string

const (
	Professionnel   ID = "professionnel"
	Conversationnel ID = "conversationnel"
	Dramatique      ID = "dramatique"
	Decontracte     ID = "decontracte"
)

// Adjustments 叠加在基础语音参数上的倍率
type Adjustments struct {
	Pitch  float64 `json:"pitch_adjustment"`
	Rate   float64 `json:"rate_adjustment"`
	Volume float64 `json:"volume_adjustment"`
}

// Profile 朗读人设
type Profile struct {
	ID            ID               `json:"id"`
	Name          string           `json:"name"`
	NameFr        string           `json:"name_fr"`
	Description   string           `json:"description"`
	DescriptionFr string           `json:"description_fr"`
	Icon          string           `json:"icon"`
	Prosody       prosody.Settings `json:"prosody_settings"`
	Adjustments   Adjustments      `json:"voice_settings"`
	Examples      []string         `json:"examples"`
	SampleText    string           `json:"sample_text"`
}

//go:embed profiles.yaml
var catalogYAML []byte

// yaml 文档结构
type catalogDoc struct {
	Profiles []profileDoc `yaml:"profiles"`
}

type profileDoc struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	NameFr        string   `yaml:"name_fr"`
	Description   string   `yaml:"description"`
	DescriptionFr string   `yaml:"description_fr"`
	Icon          string   `yaml:"icon"`
	Examples      []string `yaml:"examples"`
	SampleText    string   `yaml:"sample_text"`
	Prosody       struct {
		Enabled           bool    `yaml:"enabled"`
		Intensity         float64 `yaml:"intensity"`
		PauseMultiplier   float64 `yaml:"pause_multiplier"`
		EmphasisDetection bool    `yaml:"emphasis_detection"`
		BreathingSounds   bool    `yaml:"breathing_sounds"`
		NaturalPacing     bool    `yaml:"natural_pacing"`
	} `yaml:"prosody"`
	Adjustments struct {
		Pitch  float64 `yaml:"pitch"`
		Rate   float64 `yaml:"rate"`
		Volume float64 `yaml:"volume"`
	} `yaml:"adjustments"`
}

var catalog = mustParse(catalogYAML)

func mustParse(data []byte) []Profile {
	profiles, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("voiceprofile: invalid embedded catalog: %v", err))
	}
	return profiles
}

// Parse 解析 YAML 人设目录
func Parse(data []byte) ([]Profile, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse voice profiles: %w", err)
	}

	seen := make(map[string]bool, len(doc.Profiles))
	profiles := make([]Profile, 0, len(doc.Profiles))
	for _, p := range doc.Profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("voice profile without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate voice profile %q", p.ID)
		}
		seen[p.ID] = true

		profiles = append(profiles, Profile{
			ID:            ID(p.ID),
			Name:          p.Name,
			NameFr:        p.NameFr,
			Description:   p.Description,
			DescriptionFr: p.DescriptionFr,
			Icon:          p.Icon,
			Examples:      p.Examples,
			SampleText:    p.SampleText,
			Prosody: prosody.Settings{
				Enabled:           p.Prosody.Enabled,
				Intensity:         p.Prosody.Intensity,
				PauseMultiplier:   p.Prosody.PauseMultiplier,
				EmphasisDetection: p.Prosody.EmphasisDetection,
				BreathingSounds:   p.Prosody.BreathingSounds,
				NaturalPacing:     p.Prosody.NaturalPacing,
			}.Normalize(),
			Adjustments: Adjustments{
				Pitch:  p.Adjustments.Pitch,
				Rate:   p.Adjustments.Rate,
				Volume: p.Adjustments.Volume,
			},
		})
	}
	return profiles, nil
}

// All 返回全部人设（副本）
func All() []Profile {
	out := make([]Profile, len(catalog))
	copy(out, catalog)
	return out
}

// Get 按 ID 查找人设
func Get(id ID) (Profile, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Apply 把人设倍率乘到基础语音参数上并钳制
func Apply(base prosody.SpeechParams, p Profile) prosody.SpeechParams {
	return prosody.SpeechParams{
		Pitch:  base.Pitch * p.Adjustments.Pitch,
		Rate:   base.Rate * p.Adjustments.Rate,
		Volume: base.Volume * p.Adjustments.Volume,
	}.Clamp()
}

var (
	formalWords   = []string{"gouvernement", "économie", "politique", "rapport", "analyse", "étude", "recherche"}
	casualWords   = []string{"hey", "salut", "cool", "fun", "ben", "icitte", "là"}
	dramaticWords = []string{"histoire", "fois", "héros", "destin", "voyage", "mystère", "aventure"}
)

// 某类关键词命中数达到该值即推荐对应人设
const recommendThreshold = 2

// Recommend 根据文本内容推荐人设
// 依次检查正式、随意、戏剧三类关键词；都不满足时使用 conversationnel
func Recommend(text string) ID {
	lower := strings.ToLower(text)

	switch {
	case countHits(lower, formalWords) >= recommendThreshold:
		return Professionnel
	case countHits(lower, casualWords) >= recommendThreshold:
		return Decontracte
	case countHits(lower, dramaticWords) >= recommendThreshold:
		return Dramatique
	}
	return Conversationnel
}

func countHits(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
