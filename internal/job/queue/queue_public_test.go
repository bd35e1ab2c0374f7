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

package queue_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/job/queue"
)

type QueuePublicTestSuite struct {
	suite.Suite

	ctx context.Context
}

func (s *QueuePublicTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *QueuePublicTestSuite) TestPutGet() {
	tests := []struct {
		name  string
		items []job.WorkItem
	}{
		{
			name: "single item",
			items: []job.WorkItem{
				job.NewWorkItem("hashicorp/aws", "5.1.0", job.TierOfficial),
			},
		},
		{
			name: "items across tiers",
			items: []job.WorkItem{
				job.NewWorkItem("hashicorp/aws", "5.1.0", job.TierOfficial),
				job.NewWorkItem("datadog/datadog", "3.0.0", job.TierPartner),
				job.NewWorkItem("someone/thing", "0.1.0", job.TierCommunity),
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			q := queue.New()
			for _, item := range tc.items {
				s.Require().NoError(q.Put(item))
			}
			s.Equal(len(tc.items), q.Size())
			q.Close()

			got := make([]job.WorkItem, 0, len(tc.items))
			for i := range tc.items {
				item, err := q.Get(s.ctx)
				s.Require().NoError(err)
				got = append(got, item)
				s.Equal(len(tc.items)-i-1, q.Size())
			}

			s.Equal(tc.items, got)
			s.True(q.IsEmpty())

			_, err := q.Get(s.ctx)
			s.ErrorIs(err, queue.ErrDrained)
		})
	}
}

func (s *QueuePublicTestSuite) TestPutAfterClose() {
	q := queue.New()
	q.Close()
	q.Close()

	err := q.Put(job.NewWorkItem("hashicorp/aws", "5.1.0", job.TierOfficial))
	s.ErrorIs(err, queue.ErrClosed)
	s.True(q.IsEmpty())
}

func (s *QueuePublicTestSuite) TestGetBlocksUntilPut() {
	q := queue.New()
	want := job.NewWorkItem("hashicorp/aws", "5.1.0", job.TierOfficial)

	done := make(chan job.WorkItem, 1)
	go func() {
		item, err := q.Get(s.ctx)
		if err == nil {
			done <- item
		}
	}()

	select {
	case <-done:
		s.Fail("get returned before any item was put")
	case <-time.After(50 * time.Millisecond):
	}

	s.Require().NoError(q.Put(want))

	select {
	case got := <-done:
		s.Equal(want, got)
	case <-time.After(2 * time.Second):
		s.Fail("get did not return after put")
	}
}

func (s *QueuePublicTestSuite) TestGetReleasedByClose() {
	q := queue.New()

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Get(s.ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-errCh:
		s.ErrorIs(err, queue.ErrDrained)
	case <-time.After(2 * time.Second):
		s.Fail("get did not return after close")
	}
}

func (s *QueuePublicTestSuite) TestGetHonorsContext() {
	q := queue.New()
	ctx, cancel := context.WithCancel(s.ctx)

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Get(ctx)
		errCh <- err
	}()

	cancel()

	select {
	case err := <-errCh:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		s.Fail("get did not return after cancel")
	}
}

func (s *QueuePublicTestSuite) TestGetAfterCancelKeepsQueuedItems() {
	tests := []struct {
		name  string
		close bool
	}{
		{name: "open queue"},
		{name: "closed queue", close: true},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			q := queue.New()
			s.Require().NoError(q.Put(job.NewWorkItem("hashicorp/aws", "5.1.0", job.TierOfficial)))
			s.Require().NoError(q.Put(job.NewWorkItem("hashicorp/google", "6.0.0", job.TierOfficial)))
			if tc.close {
				q.Close()
			}

			ctx, cancel := context.WithCancel(s.ctx)
			cancel()

			_, err := q.Get(ctx)
			s.ErrorIs(err, context.Canceled)
			s.Equal(2, q.Size())
		})
	}
}

func (s *QueuePublicTestSuite) TestConcurrentConsumersReceiveEachItemOnce() {
	const (
		total     = 500
		consumers = 8
	)

	q := queue.New()
	for i := 0; i < total; i++ {
		s.Require().NoError(q.Put(job.NewWorkItem(
			fmt.Sprintf("org/provider-%d", i),
			"1.0.0",
			job.TierCommunity,
		)))
	}
	q.Close()

	var (
		mu   sync.Mutex
		seen = make(map[string]int, total)
		wg   sync.WaitGroup
	)

	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, err := q.Get(s.ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[item.ProviderFullName]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Len(seen, total)
	for name, count := range seen {
		s.Equal(1, count, "item %s delivered %d times", name, count)
	}
	s.True(q.IsEmpty())
}

func TestQueuePublicTestSuite(t *testing.T) {
	suite.Run(t, new(QueuePublicTestSuite))
}
