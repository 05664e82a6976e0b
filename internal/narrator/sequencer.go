// Package narrator 逐句朗读序列器
//
// 序列器把文本切成句段，依次交给语音引擎朗读，在句段之间按韵律提示停顿，
// 并驱动逐词高亮。同一时刻只存在一个朗读任务，新的 Start 会先完整结束旧任务。
package narrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"narrator/internal/pkg/metrics"
	"narrator/internal/pkg/prosody"
	"narrator/internal/pkg/speech"
)

// State 序列器状态
type State string

const (
	StateIdle     State = "idle"
	StateSpeaking State = "speaking"
	StateWaiting  State = "waiting" // 句段之间的停顿
	StatePaused   State = "paused"
	StateStopped  State = "stopped"
)

// ErrEmptyText 文本切分后没有句段
var ErrEmptyText = errors.New("nothing to narrate")

const (
	// DefaultSegmentPause 句尾没有停顿提示时的句间停顿
	DefaultSegmentPause = 300 * time.Millisecond

	// 句尾停顿取最后 pauseWindow 个字符内的提示
	pauseWindow = 5
)

// WakeLock 朗读期间保持唤醒
// Acquire 在 Start 时调用，返回的 release 在结束时调用，二者都在序列器锁内执行
type WakeLock interface {
	Acquire() (release func())
}

// Options 序列器依赖
type Options struct {
	Scheduler Scheduler
	Sink      Sink
	WakeLock  WakeLock
	Metrics   *metrics.Metrics
}

// Status 当前状态快照
type Status struct {
	Update
	Segments int `json:"segments"`
}

// Sequencer 朗读序列器
type Sequencer struct {
	engine  speech.Engine
	sched   Scheduler
	sink    Sink
	wake    WakeLock
	metrics *metrics.Metrics

	mu          sync.Mutex
	run         *run
	last        Update
	unsubscribe func()
}

// run 一次朗读任务，只在持锁时访问
type run struct {
	id       string
	settings VoiceSettings
	prosody  *prosody.Engine // 关闭韵律时为 nil
	base     prosody.SpeechParams
	segments []prosody.TextSegment
	words    []int

	index      int
	highlight  int
	state      State
	pausedFrom State

	// seq 标识当前句段周期，过期的回调据此丢弃
	seq       int
	utterance string
	boundary  bool // 高亮跟随引擎的逐词事件

	clock   Timer
	next    Timer
	stopCtx func() bool
	release func()
	started time.Time
}

// New 创建序列器
func New(engine speech.Engine, opts Options) *Sequencer {
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler{}
	}
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Default()
	}

	s := &Sequencer{
		engine:  engine,
		sched:   opts.Scheduler,
		sink:    opts.Sink,
		wake:    opts.WakeLock,
		metrics: opts.Metrics,
		last:    Update{State: StateIdle, HighlightedWordIndex: -1},
	}
	s.unsubscribe = engine.Subscribe(speech.EventWordBoundary, s.onWordBoundary)
	return s
}

// BuildSegments 按设置切分并分析文本
// 关闭韵律时只按句切分，不生成提示
func BuildSegments(text string, settings VoiceSettings) []prosody.TextSegment {
	if prosody.ShouldPreprocess(settings.Prosody, settings.Language) {
		text = prosody.PreprocessCanadianFrench(text)
	}
	if !settings.Prosody.Enabled {
		return prosody.PlainSegments(text)
	}
	return prosody.NewEngine(settings.Prosody).Analyze(text)
}

// Start 开始朗读，返回任务 ID
// 已有任务会先被停止；ctx 取消时任务随之停止
func (s *Sequencer) Start(ctx context.Context, text string, settings VoiceSettings) (string, error) {
	settings = settings.Normalize()
	segments := BuildSegments(text, settings)
	if len(segments) == 0 {
		return "", ErrEmptyText
	}

	r := &run{
		id:        uuid.New().String(),
		settings:  settings,
		base:      settings.ProfileParams(),
		segments:  segments,
		words:     make([]int, len(segments)),
		highlight: -1,
		state:     StateIdle,
		started:   time.Now(),
	}
	if settings.Prosody.Enabled {
		r.prosody = prosody.NewEngine(settings.Prosody)
	}
	for i, seg := range segments {
		r.words[i] = prosody.WordCount(seg.Text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != nil {
		s.teardownLocked(s.run, EventStopped, nil)
	}

	s.run = r
	if ctx != nil && ctx.Done() != nil {
		r.stopCtx = context.AfterFunc(ctx, func() { s.stopRun(r) })
	}
	if s.wake != nil {
		r.release = s.wake.Acquire()
	}
	s.metrics.RunStarted(context.Background())

	log.Info().
		Str("run_id", r.id).
		Int("segments", len(segments)).
		Str("language", settings.Language).
		Str("personality", string(settings.Personality)).
		Bool("prosody", settings.Prosody.Enabled).
		Msg("narration started")
	s.sink.OnEvent(Event{Kind: EventStarted, RunID: r.id, Segments: len(segments)})

	if err := s.speakLocked(r); err != nil {
		return r.id, fmt.Errorf("failed to speak first segment: %w", err)
	}
	return r.id, nil
}

// speakLocked 朗读当前句段
func (s *Sequencer) speakLocked(r *run) error {
	r.seq++
	seq := r.seq
	seg := r.segments[r.index]

	r.state = StateSpeaking
	r.highlight = 0
	r.next = nil
	r.utterance = ""
	s.emitLocked(r)

	// 参数在句段开始时确定，之后的设置修改不影响本句
	params := r.base
	if r.prosody != nil {
		params = r.prosody.ApplyProsodyToSpeech(r.base, seg)
	}
	opts := speech.Options{
		Language: r.settings.Language,
		Pitch:    params.Pitch,
		Rate:     params.Rate,
		Volume:   params.Volume,
		VoiceID:  r.settings.VoiceID,
	}

	r.boundary = s.engine.Capabilities().WordBoundaries
	if !r.boundary {
		s.startClockLocked(r, seq)
	}

	id, err := s.engine.Speak(seg.Text, opts, func(err error) { s.onDone(r, seq, err) })
	if err != nil {
		s.metrics.SpeechError(context.Background())
		s.teardownLocked(r, EventError, err)
		return err
	}
	r.utterance = id
	s.metrics.SegmentSpoken(context.Background())

	log.Debug().
		Str("run_id", r.id).
		Int("segment", r.index).
		Float64("pitch", params.Pitch).
		Float64("rate", params.Rate).
		Float64("volume", params.Volume).
		Msg("speaking segment")
	return nil
}

// startClockLocked 按估算语速推进高亮
func (s *Sequencer) startClockLocked(r *run, seq int) {
	s.stopClockLocked(r)
	interval := speech.WordInterval(speech.DefaultWordsPerMinute, r.base.Rate)
	r.clock = s.sched.Every(interval, func() { s.tick(r, seq) })
}

func (s *Sequencer) stopClockLocked(r *run) {
	if r.clock != nil {
		r.clock.Stop()
		r.clock = nil
	}
}

func (s *Sequencer) tick(r *run, seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(r, seq) || r.state != StateSpeaking {
		return
	}
	if r.highlight+1 < r.words[r.index] {
		r.highlight++
		s.emitLocked(r)
	}
	if r.highlight+1 >= r.words[r.index] {
		s.stopClockLocked(r)
	}
}

func (s *Sequencer) onWordBoundary(ev speech.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run
	if r == nil || !r.boundary || r.state != StateSpeaking || ev.UtteranceID != r.utterance {
		return
	}
	idx := ev.WordIndex
	if n := r.words[r.index]; idx >= n {
		idx = n - 1
	}
	if idx < 0 || idx == r.highlight {
		return
	}
	r.highlight = idx
	s.emitLocked(r)
}

// onDone 处理句段朗读结束
func (s *Sequencer) onDone(r *run, seq int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(r, seq) {
		return
	}
	if r.state != StateSpeaking && r.state != StatePaused {
		return
	}
	s.stopClockLocked(r)

	if err != nil {
		log.Error().Err(err).Str("run_id", r.id).Int("segment", r.index).Msg("speech failed")
		s.metrics.SpeechError(context.Background())
		s.teardownLocked(r, EventError, err)
		return
	}

	pause := DefaultSegmentPause
	if ms, ok := prosody.TrailingPause(r.segments[r.index], pauseWindow); ok {
		pause = time.Duration(ms) * time.Millisecond
	}

	r.index++
	if r.index >= len(r.segments) {
		s.teardownLocked(r, EventCompleted, nil)
		return
	}

	r.seq++
	next := r.seq
	r.highlight = 0
	if r.state == StatePaused {
		// 暂停期间本句结束，恢复时直接读下一句
		r.pausedFrom = StateWaiting
		s.emitLocked(r)
		return
	}

	r.state = StateWaiting
	r.next = s.sched.AfterFunc(pause, func() { s.continueRun(r, next) })
	s.emitLocked(r)
}

func (s *Sequencer) continueRun(r *run, seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(r, seq) || r.state != StateWaiting {
		return
	}
	_ = s.speakLocked(r)
}

// Pause 暂停朗读；引擎不支持暂停或没有任务时返回 false
func (s *Sequencer) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run
	if r == nil || !s.engine.Capabilities().Pause {
		return false
	}

	switch r.state {
	case StatePaused:
		return true
	case StateSpeaking:
		if !s.engine.Pause() {
			return false
		}
		s.stopClockLocked(r)
		r.pausedFrom = StateSpeaking
	case StateWaiting:
		if r.next != nil {
			r.next.Stop()
			r.next = nil
		}
		r.pausedFrom = StateWaiting
	default:
		return false
	}

	r.state = StatePaused
	s.emitLocked(r)
	return true
}

// Resume 继续朗读
func (s *Sequencer) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run
	if r == nil || r.state != StatePaused || !s.engine.Capabilities().Pause {
		return false
	}

	if r.pausedFrom == StateWaiting {
		return s.speakLocked(r) == nil
	}

	if !s.engine.Resume() {
		return false
	}
	r.state = StateSpeaking
	if !r.boundary {
		s.startClockLocked(r, r.seq)
	}
	s.emitLocked(r)
	return true
}

// Stop 停止朗读，可重复调用；返回是否确实停止了任务
func (s *Sequencer) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		return false
	}
	s.teardownLocked(s.run, EventStopped, nil)
	return true
}

func (s *Sequencer) stopRun(r *run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == r {
		s.teardownLocked(r, EventStopped, nil)
	}
}

// UpdateSettings 修改当前任务的设置，从下一个句段开始生效
// 句段已经切分完成，是否开启韵律沿用 Start 时的设置
func (s *Sequencer) UpdateSettings(v VoiceSettings) bool {
	v = v.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run
	if r == nil {
		return false
	}
	v.Prosody.Enabled = r.settings.Prosody.Enabled
	r.settings = v
	r.base = v.ProfileParams()
	if r.prosody != nil {
		r.prosody = prosody.NewEngine(v.Prosody)
	}
	return true
}

// Status 返回当前状态
func (s *Sequencer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		return Status{Update: s.last}
	}
	return Status{Update: s.updateLocked(s.run), Segments: len(s.run.segments)}
}

// Segments 返回当前任务的句段
func (s *Sequencer) Segments() []prosody.TextSegment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		return nil
	}
	return append([]prosody.TextSegment(nil), s.run.segments...)
}

// Close 停止朗读并取消引擎订阅
func (s *Sequencer) Close() {
	s.Stop()
	s.unsubscribe()
}

// teardownLocked 结束任务并释放所有资源
func (s *Sequencer) teardownLocked(r *run, kind EventKind, err error) {
	s.stopClockLocked(r)
	if r.next != nil {
		r.next.Stop()
		r.next = nil
	}
	if r.stopCtx != nil {
		r.stopCtx()
	}
	if kind != EventCompleted {
		s.engine.Stop()
	}
	if r.release != nil {
		r.release()
		r.release = nil
	}

	s.run = nil
	r.state = StateStopped
	r.highlight = -1
	if r.index >= len(r.segments) {
		r.index = len(r.segments) - 1
	}
	s.emitLocked(r)

	ev := Event{Kind: kind, RunID: r.id, Segments: len(r.segments)}
	outcome := metrics.OutcomeStopped
	switch kind {
	case EventCompleted:
		outcome = metrics.OutcomeCompleted
	case EventError:
		outcome = metrics.OutcomeError
		if err != nil {
			ev.Error = err.Error()
		}
	}
	s.sink.OnEvent(ev)
	s.metrics.RunFinished(context.Background(), outcome, time.Since(r.started))

	log.Info().Str("run_id", r.id).Str("outcome", outcome).Msg("narration finished")
}

func (s *Sequencer) currentLocked(r *run, seq int) bool {
	return s.run == r && r.seq == seq
}

func (s *Sequencer) updateLocked(r *run) Update {
	return Update{
		RunID:                r.id,
		State:                r.state,
		CurrentSegmentIndex:  r.index,
		HighlightedWordIndex: r.highlight,
		IsSpeaking:           r.state != StateStopped && r.state != StateIdle,
	}
}

func (s *Sequencer) emitLocked(r *run) {
	u := s.updateLocked(r)
	s.last = u
	s.sink.OnUpdate(u)
}
