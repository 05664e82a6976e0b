package narrator

import (
	"sync"

	"github.com/rs/zerolog"
)

// Update 界面状态更新
type Update struct {
	RunID                string `json:"run_id"`
	State                State  `json:"state"`
	CurrentSegmentIndex  int    `json:"current_segment_index"`
	HighlightedWordIndex int    `json:"highlighted_word_index"`
	IsSpeaking           bool   `json:"is_speaking"`
}

// EventKind 朗读生命周期事件
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventCompleted EventKind = "completed"
	EventStopped   EventKind = "stopped"
	EventError     EventKind = "error"
)

// Event 朗读生命周期事件
type Event struct {
	Kind     EventKind `json:"kind"`
	RunID    string    `json:"run_id"`
	Segments int       `json:"segments,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Sink 接收朗读进度
// 回调在序列器内部锁下同步调用，实现不能阻塞，也不能回调序列器
type Sink interface {
	OnUpdate(u Update)
	OnEvent(e Event)
}

// NopSink 丢弃全部通知
type NopSink struct{}

func (NopSink) OnUpdate(Update) {}
func (NopSink) OnEvent(Event)   {}

// MultiSink 依次转发给多个 Sink
type MultiSink []Sink

func (m MultiSink) OnUpdate(u Update) {
	for _, s := range m {
		s.OnUpdate(u)
	}
}

func (m MultiSink) OnEvent(e Event) {
	for _, s := range m {
		s.OnEvent(e)
	}
}

// LogSink 把进度写入日志
type LogSink struct {
	Logger zerolog.Logger
}

// OnUpdate 见 Sink
func (l LogSink) OnUpdate(u Update) {
	l.Logger.Debug().
		Str("run_id", u.RunID).
		Str("state", string(u.State)).
		Int("segment", u.CurrentSegmentIndex).
		Int("word", u.HighlightedWordIndex).
		Bool("speaking", u.IsSpeaking).
		Msg("narration update")
}

// OnEvent 见 Sink
func (l LogSink) OnEvent(e Event) {
	ev := l.Logger.Info()
	if e.Kind == EventError {
		ev = l.Logger.Error().Str("error", e.Error)
	}
	ev.Str("run_id", e.RunID).
		Str("kind", string(e.Kind)).
		Int("segments", e.Segments).
		Msg("narration event")
}

// Message 广播给订阅者的消息，Update 与 Event 二选一
type Message struct {
	Type   string  `json:"type"`
	Update *Update `json:"update,omitempty"`
	Event  *Event  `json:"event,omitempty"`
}

// Broadcaster 把进度扇出给多个订阅者
// 订阅者的缓冲区满时丢弃消息，不阻塞序列器
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Message
	buffer int
}

// NewBroadcaster 创建广播器，buffer 为每个订阅者的缓冲区大小
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 64
	}
	return &Broadcaster{subs: make(map[int]chan Message), buffer: buffer}
}

// Subscribe 订阅，返回消息通道与取消函数
func (b *Broadcaster) Subscribe() (<-chan Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Message, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers 当前订阅者数量
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// OnUpdate 见 Sink
func (b *Broadcaster) OnUpdate(u Update) {
	b.publish(Message{Type: "update", Update: &u})
}

// OnEvent 见 Sink
func (b *Broadcaster) OnEvent(e Event) {
	b.publish(Message{Type: "event", Event: &e})
}

func (b *Broadcaster) publish(m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- m:
		default:
		}
	}
}
