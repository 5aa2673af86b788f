package watcher

import (
	"fmt"
	"sync"
	"time"
)

// debouncer coalesces bursts of change events so one save that triggers
// several fsnotify events results in a single re-analysis.
type debouncer struct {
	delay   time.Duration
	pending map[string]FileChangeEvent
	timer   *time.Timer
	mutex   sync.Mutex
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]FileChangeEvent),
	}
}

func (d *debouncer) add(event FileChangeEvent, handler FileChangeHandler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.pending[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.flush(handler)
	})
}

func (d *debouncer) flush(handler FileChangeHandler) {
	d.mutex.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mutex.Unlock()
		return
	}
	changedFiles := make([]string, 0, len(d.pending))
	for path := range d.pending {
		changedFiles = append(changedFiles, path)
	}
	d.pending = make(map[string]FileChangeEvent)
	d.mutex.Unlock()

	if err := handler(changedFiles); err != nil {
		fmt.Printf("Handler error: %v\n", err)
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
