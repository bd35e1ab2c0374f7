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
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/badarsebard/terraform-schemas/internal/archive"
	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/job/queue"
	"github.com/badarsebard/terraform-schemas/internal/telemetry"
	"github.com/badarsebard/terraform-schemas/internal/tfconfig"
	"github.com/badarsebard/terraform-schemas/internal/tool"
)

// WorkspacePrefix prefixes every scratch directory created under the
// work directory.
const WorkspacePrefix = "tf-"

// ErrNoVersions is recorded for providers without a published version.
var ErrNoVersions = errors.New("provider has no published versions")

// New creates a worker that takes items from source, runs the tool in
// scratch directories under workDir, and stores artifacts in store.
func New(
	id int,
	appFs afero.Fs,
	logger *slog.Logger,
	source Source,
	runner tool.Runner,
	store *archive.Archive,
	workDir string,
) *Worker {
	processed, _ := telemetry.Meter().Int64Counter(
		"schemas.items.processed",
		metric.WithDescription("Work items processed by tier and status."),
	)

	return &Worker{
		id:        id,
		logger:    logger.With(slog.Int("worker", id)),
		appFs:     appFs,
		source:    source,
		runner:    runner,
		archive:   store,
		workDir:   workDir,
		processed: processed,
	}
}

// Run processes items until the source drains, passing every outcome to
// record. It returns nil once the source is drained and ctx.Err() if ctx
// is cancelled first. No new item is taken after cancellation.
func (w *Worker) Run(
	ctx context.Context,
	record func(job.Outcome),
) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := w.source.Get(ctx)
		if errors.Is(err, queue.ErrDrained) {
			return nil
		}
		if err != nil {
			return err
		}

		outcome := w.Process(ctx, item)

		w.processed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tier", item.Tier.String()),
			attribute.String("status", string(outcome.Status)),
		))

		if record != nil {
			record(outcome)
		}

		w.logger.Info(
			"item processed",
			slog.String("tier", item.Tier.String()),
			slog.String("provider", item.ProviderFullName),
			slog.String("version", item.Version),
			slog.String("status", string(outcome.Status)),
			slog.Int("remaining", w.source.Size()),
		)
	}
}

// Process extracts the schema of one item and archives the result. The
// scratch workspace is removed before Process returns.
func (w *Worker) Process(
	ctx context.Context,
	item job.WorkItem,
) job.Outcome {
	ctx, span := telemetry.Tracer().Start(ctx, "worker.process",
		trace.WithAttributes(
			attribute.String("provider", item.ProviderFullName),
			attribute.String("version", item.Version),
			attribute.String("tier", item.Tier.String()),
		),
	)
	defer span.End()

	outcome := w.process(ctx, item)

	span.SetAttributes(attribute.String("status", string(outcome.Status)))
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, string(outcome.Status))
	}

	return outcome
}

func (w *Worker) process(
	ctx context.Context,
	item job.WorkItem,
) job.Outcome {
	if item.Version == "" {
		return w.fail(ctx, item, job.StatusWorkspaceFailed, ErrNoVersions, ErrNoVersions.Error())
	}

	dir, err := w.prepareWorkspace(item)
	if err != nil {
		return w.fail(ctx, item, job.StatusWorkspaceFailed, err, err.Error())
	}
	defer w.removeWorkspace(ctx, dir)

	result, err := w.runner.Init(ctx, dir)
	if text, failure := toolFailure("init", result, err); failure != nil {
		return w.fail(ctx, item, job.StatusInitFailed, failure, text)
	}

	result, err = w.runner.ProvidersSchema(ctx, dir)
	if text, failure := toolFailure("providers schema", result, err); failure != nil {
		return w.fail(ctx, item, job.StatusSchemaFailed, failure, text)
	}

	path, err := w.archive.WriteSchema(item, []byte(result.Stdout))
	if err != nil {
		failure := fmt.Errorf("archiving schema: %w", err)

		return w.fail(ctx, item, job.StatusArchiveFailed, failure, failure.Error())
	}

	return job.Outcome{Item: item, Status: job.StatusSucceeded, Path: path}
}

// fail writes text as the item's error artifact and returns the outcome.
func (w *Worker) fail(
	ctx context.Context,
	item job.WorkItem,
	status job.Status,
	cause error,
	text string,
) job.Outcome {
	w.logger.WarnContext(ctx, "extraction failed",
		slog.String("provider", item.ProviderFullName),
		slog.String("version", item.Version),
		slog.String("status", string(status)),
		slog.String("error", cause.Error()),
	)

	path, err := w.archive.WriteError(item, text)
	if err != nil {
		w.logger.ErrorContext(ctx, "archiving error failed",
			slog.String("provider", item.ProviderFullName),
			slog.String("error", err.Error()),
		)

		return job.Outcome{
			Item:   item,
			Status: job.StatusArchiveFailed,
			Path:   path,
			Err:    errors.Join(cause, err),
		}
	}

	return job.Outcome{Item: item, Status: status, Path: path, Err: cause}
}

// prepareWorkspace creates a unique scratch directory holding the project
// configuration for item.
func (w *Worker) prepareWorkspace(
	item job.WorkItem,
) (string, error) {
	dir, err := afero.TempDir(w.appFs, w.workDir, WorkspacePrefix)
	if err != nil {
		return "", fmt.Errorf("creating workspace: %w", err)
	}

	body, err := tfconfig.Render(item.ProviderFullName, item.Version)
	if err == nil {
		err = afero.WriteFile(w.appFs, filepath.Join(dir, tfconfig.FileName), body, 0o644)
	}
	if err != nil {
		_ = w.appFs.RemoveAll(dir)

		return "", fmt.Errorf("writing workspace config: %w", err)
	}

	return dir, nil
}

func (w *Worker) removeWorkspace(
	ctx context.Context,
	dir string,
) {
	if err := w.appFs.RemoveAll(dir); err != nil {
		w.logger.ErrorContext(ctx, "workspace cleanup failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()),
		)
	}
}

// toolFailure classifies a tool invocation. It returns a nil error on
// success, otherwise the text to archive and the failure.
func toolFailure(
	op string,
	result *tool.Result,
	err error,
) (string, error) {
	if err != nil {
		return err.Error(), err
	}

	if result.Succeeded() {
		return "", nil
	}

	failure := fmt.Errorf("%s exited with status %d", op, result.ExitCode)
	if strings.TrimSpace(result.Stderr) == "" {
		return failure.Error(), failure
	}

	return result.Stderr, failure
}
