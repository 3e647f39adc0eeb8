package core

import (
	"context"
	"sync"
)

// Mailbox is an unbounded FIFO drained by a single goroutine. Post never blocks, so actors that message each
// other in a cycle cannot deadlock.
type Mailbox[M any] struct {
	mu     sync.Mutex
	queue  []M
	notify chan struct{}
}

func NewMailbox[M any]() *Mailbox[M] {
	return &Mailbox[M]{
		notify: make(chan struct{}, 1),
	}
}

// Post appends msg and returns the resulting queue depth.
func (m *Mailbox[M]) Post(msg M) int {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	depth := len(m.queue)
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return depth
}

func (m *Mailbox[M]) take() (M, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero M
	if len(m.queue) == 0 {
		return zero, false
	}
	msg := m.queue[0]
	m.queue[0] = zero
	m.queue = m.queue[1:]
	return msg, true
}

func (m *Mailbox[M]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Run handles messages one at a time until ctx is done. Messages still queued at that point are dropped.
func (m *Mailbox[M]) Run(ctx context.Context, handle func(M)) {
	for {
		for {
			if ctx.Err() != nil {
				return
			}
			msg, ok := m.take()
			if !ok {
				break
			}
			handle(msg)
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			return
		}
	}
}
