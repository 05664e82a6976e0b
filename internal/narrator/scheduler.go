package narrator

import (
	"sync"
	"time"
)

// Timer 可取消的定时任务
type Timer interface {
	// Stop 取消任务，任务已执行或已取消时返回 false
	Stop() bool
}

// Scheduler 定时器来源，测试中可替换为手动推进的实现
type Scheduler interface {
	// AfterFunc 在 d 之后执行一次 f
	AfterFunc(d time.Duration, f func()) Timer

	// Every 每隔 d 执行一次 f，直到 Stop
	Every(d time.Duration, f func()) Timer
}

// SystemScheduler 基于 time 包的 Scheduler
type SystemScheduler struct{}

// AfterFunc 见 Scheduler
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every 见 Scheduler
func (SystemScheduler) Every(d time.Duration, f func()) Timer {
	t := &ticker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go t.loop(f)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) loop(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			f()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
