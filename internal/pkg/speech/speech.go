// Package speech 语音合成引擎抽象
//
// 朗读核心只依赖 Engine 接口，具体实现可以是平台 TTS、网络服务，或纯软件模拟。
package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrInterrupted 朗读被 Stop 或新的 Speak 中断
var ErrInterrupted = errors.New("speech: utterance interrupted")

// Options 单次朗读参数
type Options struct {
	Language string  `json:"language"`
	Pitch    float64 `json:"pitch"`
	Rate     float64 `json:"rate"`
	Volume   float64 `json:"volume"`
	VoiceID  string  `json:"voice_id,omitempty"`
}

// Quality 音色质量
type Quality string

const (
	QualityDefault  Quality = "default"
	QualityEnhanced Quality = "enhanced"
	QualityPremium  Quality = "premium"
)

// Voice 可用音色
type Voice struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Language        string  `json:"language"`
	Quality         Quality `json:"quality"`
	RequiresNetwork bool    `json:"requires_network,omitempty"`
}

// EventKind 引擎事件类型
type EventKind string

const (
	EventStart        EventKind = "start"
	EventEnd          EventKind = "end"
	EventWordBoundary EventKind = "word-boundary"
	EventError        EventKind = "error"
)

// Event 引擎事件
type Event struct {
	Kind        EventKind
	UtteranceID string
	Word        string
	CharIndex   int
	CharLength  int
	WordIndex   int
	Err         error
}

// Handler 事件处理函数
type Handler func(Event)

// DoneFunc 朗读结束回调；正常结束时 err 为 nil
type DoneFunc func(err error)

// Capabilities 引擎能力
type Capabilities struct {
	Pause          bool `json:"pause"`           // 支持暂停/继续
	WordBoundaries bool `json:"word_boundaries"` // 会发出逐词边界事件
}

// Engine 语音引擎
//
// done 回调与事件都不会在 Speak、Stop、Pause、Resume 调用内部同步触发，
// 调用方可以在持锁状态下调用这些方法。
type Engine interface {
	// Speak 开始朗读，返回本次朗读的 ID；正在进行的朗读会被中断
	Speak(text string, opts Options, done DoneFunc) (string, error)

	// Stop 中断当前朗读，其 done 回调收到 ErrInterrupted；没有朗读时无操作
	Stop()

	// Pause 暂停当前朗读，不支持或没有朗读时返回 false
	Pause() bool

	// Resume 继续被暂停的朗读
	Resume() bool

	// Subscribe 订阅事件，返回取消订阅函数
	Subscribe(kind EventKind, h Handler) (unsubscribe func())

	// Voices 列出可用音色，language 为空时返回全部
	Voices(ctx context.Context, language string) ([]Voice, error)

	// Capabilities 返回引擎能力
	Capabilities() Capabilities
}

// Emitter 事件分发器，供 Engine 实现复用
type Emitter struct {
	mu       sync.Mutex
	nextID   int
	handlers map[EventKind]map[int]Handler
}

// Subscribe 注册事件处理函数
func (e *Emitter) Subscribe(kind EventKind, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[EventKind]map[int]Handler)
	}
	if e.handlers[kind] == nil {
		e.handlers[kind] = make(map[int]Handler)
	}
	e.nextID++
	id := e.nextID
	e.handlers[kind][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.handlers[kind], id)
			e.mu.Unlock()
		})
	}
}

// Emit 把事件分发给订阅者，调用时不持有内部锁
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	hs := make([]Handler, 0, len(e.handlers[ev.Kind]))
	for _, h := range e.handlers[ev.Kind] {
		hs = append(hs, h)
	}
	e.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

// FilterVoices 按语言前缀过滤音色
func FilterVoices(voices []Voice, language string) []Voice {
	if language == "" {
		return append([]Voice(nil), voices...)
	}
	var out []Voice
	for _, v := range voices {
		if strings.HasPrefix(v.Language, language) {
			out = append(out, v)
		}
	}
	return out
}

// BestVoice 选出某语言质量最好的音色：premium > enhanced > 第一个匹配项
func BestVoice(voices []Voice, language string) (Voice, bool) {
	matching := FilterVoices(voices, language)
	if len(matching) == 0 {
		return Voice{}, false
	}
	for _, q := range []Quality{QualityPremium, QualityEnhanced} {
		for _, v := range matching {
			if v.Quality == q {
				return v, true
			}
		}
	}
	return matching[0], true
}
