package loopback

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// dispatcher runs queued functions one at a time on its own goroutine.
// The queue is unbounded so handlers can trigger new events without
// blocking the dispatcher on itself.
type dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// post queues fn. It reports false once the dispatcher is stopped.
func (d *dispatcher) post(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.queue = append(d.queue, fn)
	d.cond.Signal()
	return true
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.invoke(fn)
	}
}

func (d *dispatcher) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "dispatcher.invoke",
				"panic":    fmt.Sprint(r),
			}).Error("Event handler panicked")
		}
	}()
	fn()
}

// flush blocks until everything queued before the call has run.
// It must not be called from the dispatch goroutine.
func (d *dispatcher) flush() {
	ch := make(chan struct{})
	if !d.post(func() { close(ch) }) {
		return
	}
	<-ch
}

// stop delivers what is still queued, then ends the goroutine.
// It must not be called from the dispatch goroutine.
func (d *dispatcher) stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.done
}
