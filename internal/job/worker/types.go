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

// Package worker extracts provider schemas from queued work items and
// supervises the pool of extraction workers.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/metric"

	"github.com/badarsebard/terraform-schemas/internal/archive"
	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/tool"
)

// Source hands out queued work items.
type Source interface {
	// Get blocks until an item is available. It returns queue.ErrDrained
	// once the queue is closed and empty.
	Get(ctx context.Context) (job.WorkItem, error)
	// Size returns the number of items still queued.
	Size() int
}

// Worker processes work items one at a time until its source drains.
type Worker struct {
	id      int
	logger  *slog.Logger
	appFs   afero.Fs
	source  Source
	runner  tool.Runner
	archive *archive.Archive
	workDir string

	processed metric.Int64Counter
}

// Pool runs a fixed number of workers against one source and joins them.
type Pool struct {
	logger  *slog.Logger
	source  Source
	workers []*Worker
}

// TierCounts counts outcomes within one tier.
type TierCounts struct {
	Succeeded int
	Failed    int
}

// Summary aggregates the outcomes of a pool run.
type Summary struct {
	Succeeded int
	Failed    int
	ByTier    map[job.Tier]TierCounts
	// Failures lists every unsuccessful outcome.
	Failures []job.Outcome
	// Interrupted is set when the run stopped before the source drained.
	Interrupted bool
	Elapsed     time.Duration
}
