// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package queue provides the work queue shared by the enumerator and the
// extraction workers.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/badarsebard/terraform-schemas/internal/job"
)

var (
	// ErrDrained is returned by Get once the queue is closed and empty.
	ErrDrained = errors.New("queue drained")
	// ErrClosed is returned by Put after Close.
	ErrClosed = errors.New("queue closed")
)

// Queue is an unbounded multi-producer/multi-consumer FIFO of work items.
// Consumers block in Get until an item arrives or the queue is closed and
// empty, so no consumer ever needs to poll for emptiness.
type Queue struct {
	mu     sync.Mutex
	items  []job.WorkItem
	closed bool
	// wake is closed and replaced whenever an item is added or the queue is
	// closed, releasing every waiting consumer.
	wake chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		wake: make(chan struct{}),
	}
}

// Put appends an item.
func (q *Queue) Put(
	item job.WorkItem,
) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, item)
	q.broadcastLocked()

	return nil
}

// Close marks the queue as complete. Items already queued are still
// delivered; Get returns ErrDrained once they are gone.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	q.broadcastLocked()
}

// Get removes and returns one item. Each item is returned to exactly one
// caller. Once ctx is done Get returns ctx.Err() even if items remain.
func (q *Queue) Get(
	ctx context.Context,
) (job.WorkItem, error) {
	for {
		if err := ctx.Err(); err != nil {
			return job.WorkItem{}, err
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items[0] = job.WorkItem{}
			q.items = q.items[1:]
			q.mu.Unlock()

			return item, nil
		}
		if q.closed {
			q.mu.Unlock()

			return job.WorkItem{}, ErrDrained
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return job.WorkItem{}, ctx.Err()
		case <-wake:
		}
	}
}

// Size returns the number of queued items.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// IsEmpty reports whether no items are queued.
func (q *Queue) IsEmpty() bool {
	return q.Size() == 0
}

func (q *Queue) broadcastLocked() {
	close(q.wake)
	q.wake = make(chan struct{})
}
