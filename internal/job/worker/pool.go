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

package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/metric"

	"github.com/badarsebard/terraform-schemas/internal/archive"
	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/telemetry"
	"github.com/badarsebard/terraform-schemas/internal/tool"
)

// NewPool creates count workers sharing source. A count of zero or less
// uses the host CPU count.
func NewPool(
	appFs afero.Fs,
	logger *slog.Logger,
	source Source,
	runner tool.Runner,
	store *archive.Archive,
	workDir string,
	count int,
) *Pool {
	n := job.Parallelism(count)
	workers := make([]*Worker, 0, n)
	for i := range n {
		workers = append(workers, New(i, appFs, logger, source, runner, store, workDir))
	}

	return &Pool{
		logger:  logger,
		source:  source,
		workers: workers,
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Run starts every worker and blocks until all of them have returned,
// either because the source drained or because ctx was cancelled.
func (p *Pool) Run(
	ctx context.Context,
) Summary {
	start := time.Now()
	summary := Summary{ByTier: make(map[job.Tier]TierCounts)}

	unregister := p.observeQueueDepth()
	defer unregister()

	p.logger.Info("starting workers",
		slog.Int("workers", len(p.workers)),
		slog.Int("queued", p.source.Size()),
	)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	record := func(o job.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		summary.Add(o)
	}

	for _, w := range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := w.Run(ctx, record); err != nil {
				mu.Lock()
				summary.Interrupted = true
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	summary.Elapsed = time.Since(start)

	return summary
}

// observeQueueDepth reports the queue size as a gauge while the pool runs.
func (p *Pool) observeQueueDepth() func() {
	meter := telemetry.Meter()

	gauge, err := meter.Int64ObservableGauge(
		"schemas.queue.depth",
		metric.WithDescription("Work items waiting in the queue."),
	)
	if err != nil {
		p.logger.Warn("queue depth gauge unavailable", slog.String("error", err.Error()))
		return func() {}
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(p.source.Size()))
		return nil
	}, gauge)
	if err != nil {
		p.logger.Warn("queue depth gauge unavailable", slog.String("error", err.Error()))
		return func() {}
	}

	return func() { _ = reg.Unregister() }
}

// Add folds one outcome into the summary.
func (s *Summary) Add(
	o job.Outcome,
) {
	if s.ByTier == nil {
		s.ByTier = make(map[job.Tier]TierCounts)
	}

	counts := s.ByTier[o.Item.Tier]
	if o.Succeeded() {
		s.Succeeded++
		counts.Succeeded++
	} else {
		s.Failed++
		counts.Failed++
		s.Failures = append(s.Failures, o)
	}
	s.ByTier[o.Item.Tier] = counts
}

// Total returns the number of processed items.
func (s *Summary) Total() int {
	return s.Succeeded + s.Failed
}
