package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultWordsPerMinute 模拟引擎在 rate=1.0 时的语速
const DefaultWordsPerMinute = 150

// SimulatedConfig 模拟引擎配置
type SimulatedConfig struct {
	WordsPerMinute int       // rate=1.0 时的语速，<=0 时使用默认值
	Output         io.Writer // 每次朗读把文本写一行，nil 时不输出
	CanPause       bool
	Voices         []Voice
}

// SimulatedEngine 纯软件语音引擎
// 按估算时长逐词推进，发出 start、word-boundary、end 事件
type SimulatedEngine struct {
	Emitter

	cfg SimulatedConfig

	mu      sync.Mutex
	current *utterance
}

type utterance struct {
	id       string
	words    []wordSpan
	next     int
	interval time.Duration
	timer    *time.Timer
	paused   bool
	done     DoneFunc
}

type wordSpan struct {
	text  string
	index int // 字符偏移
	size  int
}

// NewSimulatedEngine 创建模拟引擎
func NewSimulatedEngine(cfg SimulatedConfig) *SimulatedEngine {
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultWordsPerMinute
	}
	if len(cfg.Voices) == 0 {
		cfg.Voices = []Voice{
			{ID: "simulated-fr-CA", Name: "Simulé (fr-CA)", Language: "fr-CA", Quality: QualityEnhanced},
			{ID: "simulated-fr-FR", Name: "Simulé (fr-FR)", Language: "fr-FR", Quality: QualityDefault},
			{ID: "simulated-en-US", Name: "Simulated (en-US)", Language: "en-US", Quality: QualityDefault},
		}
	}
	return &SimulatedEngine{cfg: cfg}
}

// WordInterval 返回某语速下每个词的时长
func WordInterval(wordsPerMinute int, rate float64) time.Duration {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if rate <= 0 {
		rate = 1.0
	}
	return time.Duration(float64(time.Minute) / (float64(wordsPerMinute) * rate))
}

// Speak 开始朗读
func (e *SimulatedEngine) Speak(text string, opts Options, done DoneFunc) (string, error) {
	words := splitWords(text)

	u := &utterance{
		id:       uuid.New().String(),
		words:    words,
		interval: WordInterval(e.cfg.WordsPerMinute, opts.Rate),
		done:     done,
	}

	e.mu.Lock()
	prev := e.current
	if prev != nil {
		prev.stopTimer()
	}
	e.current = u
	// 空文本也要异步结束
	u.timer = time.AfterFunc(0, func() { e.step(u) })
	e.mu.Unlock()

	if prev != nil && prev.done != nil {
		go prev.done(ErrInterrupted)
	}

	if e.cfg.Output != nil {
		fmt.Fprintf(e.cfg.Output, "[%s r=%.2f p=%.2f v=%.2f] %s\n", opts.Language, opts.Rate, opts.Pitch, opts.Volume, text)
	}
	return u.id, nil
}

// step 推进一个词；首次调用发出 start
func (e *SimulatedEngine) step(u *utterance) {
	e.mu.Lock()
	if e.current != u || u.paused {
		e.mu.Unlock()
		return
	}

	first := u.next == 0
	var ev *Event
	finished := u.next >= len(u.words)
	if !finished {
		w := u.words[u.next]
		ev = &Event{
			Kind:        EventWordBoundary,
			UtteranceID: u.id,
			Word:        w.text,
			CharIndex:   w.index,
			CharLength:  w.size,
			WordIndex:   u.next,
		}
		u.next++
		u.timer = time.AfterFunc(u.interval, func() { e.step(u) })
	} else {
		e.current = nil
	}
	e.mu.Unlock()

	if first {
		e.Emit(Event{Kind: EventStart, UtteranceID: u.id})
	}
	if ev != nil {
		e.Emit(*ev)
	}
	if finished {
		e.Emit(Event{Kind: EventEnd, UtteranceID: u.id})
		if u.done != nil {
			u.done(nil)
		}
	}
}

// Stop 中断当前朗读
func (e *SimulatedEngine) Stop() {
	e.mu.Lock()
	u := e.current
	e.current = nil
	if u != nil {
		u.stopTimer()
	}
	e.mu.Unlock()

	if u != nil && u.done != nil {
		go u.done(ErrInterrupted)
	}
}

// Pause 暂停
func (e *SimulatedEngine) Pause() bool {
	if !e.cfg.CanPause {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.current
	if u == nil {
		return false
	}
	if !u.paused {
		u.paused = true
		u.stopTimer()
	}
	return true
}

// Resume 继续
func (e *SimulatedEngine) Resume() bool {
	if !e.cfg.CanPause {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.current
	if u == nil || !u.paused {
		return false
	}
	u.paused = false
	u.timer = time.AfterFunc(u.interval, func() { e.step(u) })
	return true
}

// Voices 列出音色
func (e *SimulatedEngine) Voices(_ context.Context, language string) ([]Voice, error) {
	return FilterVoices(e.cfg.Voices, language), nil
}

// Capabilities 返回引擎能力
func (e *SimulatedEngine) Capabilities() Capabilities {
	return Capabilities{Pause: e.cfg.CanPause, WordBoundaries: true}
}

func (u *utterance) stopTimer() {
	if u.timer != nil {
		u.timer.Stop()
	}
}

// splitWords 按空白切词，记录字符偏移
func splitWords(text string) []wordSpan {
	var (
		words []wordSpan
		b     strings.Builder
		start = -1
		i     int
	)
	flush := func() {
		if start >= 0 {
			words = append(words, wordSpan{text: b.String(), index: start, size: i - start})
			b.Reset()
			start = -1
		}
	}
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			flush()
		} else {
			if start < 0 {
				start = i
			}
			b.WriteRune(r)
		}
		i++
	}
	flush()
	return words
}
