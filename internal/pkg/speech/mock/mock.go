// Package mock 提供 speech.Engine 的测试替身
//
// Engine 不会自行结束朗读，测试通过 Complete / Fail 手动驱动 done 回调，
// 被 Stop 或新 Speak 中断的朗读暂存起来，由 DeliverInterrupted 投递。
//
// 示例：
//
//	eng := &mock.Engine{CanPause: true}
//	id, _ := eng.Speak("Bonjour!", speech.Options{Rate: 1}, done)
//	eng.Complete() // done(nil)
package mock

import (
	"context"
	"fmt"
	"sync"

	"narrator/internal/pkg/speech"
)

// SpeakCall 记录一次 Speak 调用
type SpeakCall struct {
	ID      string
	Text    string
	Options speech.Options
}

// Engine speech.Engine 的 mock 实现
type Engine struct {
	speech.Emitter

	mu sync.Mutex

	// --- 可配置响应 ---

	// SpeakErr 非空时 Speak 直接返回该错误
	SpeakErr error

	// CanPause 是否支持暂停
	CanPause bool

	// WordBoundaries 是否声明逐词边界能力
	WordBoundaries bool

	// VoicesResult Voices 的返回值
	VoicesResult []speech.Voice

	// VoicesErr 非空时 Voices 返回该错误
	VoicesErr error

	// --- 调用记录 ---

	SpeakCalls  []SpeakCall
	StopCalls   int
	PauseCalls  int
	ResumeCalls int

	seq         int
	pending     *pendingUtterance
	paused      bool
	interrupted []speech.DoneFunc
}

type pendingUtterance struct {
	id   string
	done speech.DoneFunc
}

var _ speech.Engine = (*Engine)(nil)

// Speak 记录调用；之前未结束的朗读进入中断队列
func (e *Engine) Speak(text string, opts speech.Options, done speech.DoneFunc) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.SpeakErr != nil {
		return "", e.SpeakErr
	}

	e.seq++
	id := fmt.Sprintf("utt-%d", e.seq)
	e.SpeakCalls = append(e.SpeakCalls, SpeakCall{ID: id, Text: text, Options: opts})

	if e.pending != nil && e.pending.done != nil {
		e.interrupted = append(e.interrupted, e.pending.done)
	}
	e.pending = &pendingUtterance{id: id, done: done}
	e.paused = false
	return id, nil
}

// Stop 中断当前朗读
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.StopCalls++
	if e.pending != nil && e.pending.done != nil {
		e.interrupted = append(e.interrupted, e.pending.done)
	}
	e.pending = nil
	e.paused = false
}

// Pause 暂停
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.PauseCalls++
	if !e.CanPause || e.pending == nil {
		return false
	}
	e.paused = true
	return true
}

// Resume 继续
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ResumeCalls++
	if !e.CanPause || e.pending == nil || !e.paused {
		return false
	}
	e.paused = false
	return true
}

// Voices 返回 VoicesResult
func (e *Engine) Voices(_ context.Context, language string) ([]speech.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.VoicesErr != nil {
		return nil, e.VoicesErr
	}
	return speech.FilterVoices(e.VoicesResult, language), nil
}

// Capabilities 返回配置的能力
func (e *Engine) Capabilities() speech.Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()
	return speech.Capabilities{Pause: e.CanPause, WordBoundaries: e.WordBoundaries}
}

// Pending 返回未结束朗读的 ID
func (e *Engine) Pending() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return "", false
	}
	return e.pending.id, true
}

// Paused 当前朗读是否处于暂停
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Complete 让当前朗读成功结束
func (e *Engine) Complete() bool {
	return e.finish(nil)
}

// Fail 让当前朗读以 err 结束
func (e *Engine) Fail(err error) bool {
	return e.finish(err)
}

func (e *Engine) finish(err error) bool {
	e.mu.Lock()
	p := e.pending
	e.pending = nil
	e.paused = false
	e.mu.Unlock()

	if p == nil {
		return false
	}
	if p.done != nil {
		p.done(err)
	}
	return true
}

// DeliverInterrupted 向被中断的朗读投递 ErrInterrupted，返回投递数量
func (e *Engine) DeliverInterrupted() int {
	e.mu.Lock()
	dones := e.interrupted
	e.interrupted = nil
	e.mu.Unlock()

	for _, done := range dones {
		done(speech.ErrInterrupted)
	}
	return len(dones)
}

// LastSpeak 返回最近一次 Speak 调用
func (e *Engine) LastSpeak() (SpeakCall, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.SpeakCalls) == 0 {
		return SpeakCall{}, false
	}
	return e.SpeakCalls[len(e.SpeakCalls)-1], true
}

// SpeakCount 返回 Speak 调用次数
func (e *Engine) SpeakCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.SpeakCalls)
}
