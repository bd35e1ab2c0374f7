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

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/badarsebard/terraform-schemas/internal/archive"
	"github.com/badarsebard/terraform-schemas/internal/cli"
	"github.com/badarsebard/terraform-schemas/internal/enumerate"
	"github.com/badarsebard/terraform-schemas/internal/exec"
	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/job/queue"
	"github.com/badarsebard/terraform-schemas/internal/job/worker"
	"github.com/badarsebard/terraform-schemas/internal/registry"
	"github.com/badarsebard/terraform-schemas/internal/telemetry"
	"github.com/badarsebard/terraform-schemas/internal/tool"
)

const serviceName = "terraform-schemas"

// harvester holds the components of one run.
type harvester struct {
	logger     *slog.Logger
	runID      string
	tiers      []job.Tier
	enumerator *enumerate.Enumerator
	pool       *worker.Pool
	queue      *queue.Queue
}

// runHarvest returns setup failures to Execute, which logs them and exits 1.
func runHarvest(
	cmd *cobra.Command,
	_ []string,
) error {
	ctx := cmd.Context()
	runID := uuid.NewString()
	log := logger.With(slog.String("run_id", runID))

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, Version, appConfig.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = shutdownTracer(context.WithoutCancel(ctx)) }()

	handler, path, shutdownMeter, err := telemetry.InitMeter(appConfig.Telemetry.Metrics)
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	defer func() { _ = shutdownMeter(context.WithoutCancel(ctx)) }()

	var server cli.Lifecycle
	if listen := appConfig.Telemetry.Metrics.Listen; listen != "" {
		ms, err := telemetry.NewMetricsServer(log, listen, path, handler)
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		server = ms
	}

	h, err := newHarvester(log, runID)
	if err != nil {
		return fmt.Errorf("preparing run: %w", err)
	}

	return cli.RunWithServer(ctx, server, func(ctx context.Context) error {
		return h.run(ctx, cmd)
	})
}

// newHarvester wires the run's components from the loaded configuration
// and creates the output directories.
func newHarvester(
	log *slog.Logger,
	runID string,
) (*harvester, error) {
	tiers := make([]job.Tier, 0, len(appConfig.Enumerate.Tiers))
	for _, name := range appConfig.Enumerate.Tiers {
		tier, err := job.ParseTier(name)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}

	ordering, err := registry.ParseVersionOrdering(appConfig.Registry.VersionOrdering)
	if err != nil {
		return nil, err
	}

	store := archive.New(appFs, appConfig.Output.SchemasDir)
	if err := store.Prepare(tiers); err != nil {
		return nil, err
	}

	if err := appFs.MkdirAll(appConfig.Output.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating work directory %s: %w", appConfig.Output.WorkDir, err)
	}

	client := registry.New(log, registry.Options{
		BaseURL:         appConfig.Registry.URL,
		PageSize:        appConfig.Registry.PageSize,
		Timeout:         appConfig.Registry.Timeout,
		RetryMax:        appConfig.Registry.RetryMax,
		RetryWaitMin:    appConfig.Registry.RetryWaitMin,
		RetryWaitMax:    appConfig.Registry.RetryWaitMax,
		VersionOrdering: ordering,
		UserAgent:       serviceName + "/" + Version,
	})

	runner := tool.New(log, exec.New(log), appConfig.Tool.Binary, appConfig.Tool.Timeout)
	q := queue.New()

	return &harvester{
		logger: log,
		runID:  runID,
		tiers:  tiers,
		enumerator: enumerate.New(
			log,
			client,
			tiers,
			appConfig.Registry.FirstPage,
			appConfig.Enumerate.Parallelism,
		),
		pool: worker.NewPool(
			appFs,
			log,
			q,
			runner,
			store,
			appConfig.Output.WorkDir,
			appConfig.Workers.Count,
		),
		queue: q,
	}, nil
}

// run enumerates the registry into the queue, closes it, then drains it
// with the worker pool and reports the outcome.
func (h *harvester) run(
	ctx context.Context,
	cmd *cobra.Command,
) error {
	ctx, span := telemetry.Tracer().Start(ctx, "harvest",
		trace.WithAttributes(attribute.String("run_id", h.runID)),
	)
	defer span.End()

	h.logger.InfoContext(ctx, "harvest started",
		slog.String("host", job.Hostname()),
		slog.String("version", Version),
		slog.Any("tiers", h.tiers),
		slog.Int("workers", h.pool.Size()),
		slog.String("schemas_dir", appConfig.Output.SchemasDir),
	)

	stats, err := h.enumerator.Enumerate(ctx, h.queue)
	h.queue.Close()
	if err != nil {
		return fmt.Errorf("enumeration stopped: %w", err)
	}

	h.logger.InfoContext(ctx, "enumeration finished",
		slog.Int("providers", stats.Providers()),
		slog.Int("failures", stats.Failures()),
	)

	summary := h.pool.Run(ctx)

	h.logger.InfoContext(ctx, "harvest finished",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed),
	)

	if err := printSummary(cmd.OutOrStdout(), h.runID, stats, summary, jsonOutput); err != nil {
		return err
	}

	if summary.Interrupted || ctx.Err() != nil {
		return fmt.Errorf("harvest interrupted: %w", context.Cause(ctx))
	}

	return nil
}
