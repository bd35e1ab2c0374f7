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

package enumerate

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/registry"
	"github.com/badarsebard/terraform-schemas/internal/telemetry"
)

// New returns an Enumerator over tiers, numbering listing pages from
// firstPage and running at most parallelism registry tasks per tier.
func New(
	logger *slog.Logger,
	lister registry.Lister,
	tiers []job.Tier,
	firstPage int,
	parallelism int,
) *Enumerator {
	return &Enumerator{
		logger:      logger,
		lister:      lister,
		tiers:       tiers,
		firstPage:   firstPage,
		parallelism: job.Parallelism(parallelism),
	}
}

// Enumerate enumerates every tier in order and puts the resulting work
// items into q. Registry failures drop the affected page, provider or
// tier and are reported in the returned Stats. Only cancellation of ctx
// or a rejected Put is returned as an error.
func (e *Enumerator) Enumerate(
	ctx context.Context,
	q Queue,
) (Stats, error) {
	var stats Stats

	for _, tier := range e.tiers {
		items, tierStats, err := e.EnumerateTier(ctx, tier)
		stats.Tiers = append(stats.Tiers, tierStats)
		if err != nil {
			return stats, err
		}

		for _, item := range items {
			if err := q.Put(item); err != nil {
				return stats, fmt.Errorf("queueing %s: %w", item.ProviderFullName, err)
			}
		}

		e.logger.Info(
			"tier enumerated",
			slog.String("tier", tier.String()),
			slog.Int("pages", tierStats.Pages),
			slog.Int("providers", tierStats.Providers),
			slog.Int("page_failures", tierStats.PageFailures),
			slog.Int("version_failures", tierStats.VersionFailures),
		)
	}

	return stats, nil
}

// EnumerateTier returns the work items of every provider listed in tier,
// in page order with duplicates removed.
func (e *Enumerator) EnumerateTier(
	ctx context.Context,
	tier job.Tier,
) ([]job.WorkItem, TierStats, error) {
	stats := TierStats{Tier: tier}

	ctx, span := telemetry.Tracer().Start(ctx, "enumerate.tier",
		trace.WithAttributes(attribute.String("registry.tier", tier.String())),
	)
	defer span.End()

	first, err := e.lister.ListProviders(ctx, tier, e.firstPage)
	if err != nil {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}

		e.logger.Warn(
			"skipping tier, first page unavailable",
			slog.String("tier", tier.String()),
			slog.String("error", err.Error()),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "first page unavailable")
		stats.Skipped = true
		stats.PageFailures = 1

		return nil, stats, nil
	}

	// The first listing is collected even when the registry reports no pages.
	stats.Pages = first.TotalPages
	slots := make([]pageResult, max(first.TotalPages, 1))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i := range slots {
		page := e.firstPage + i
		var listing *registry.ProviderPage
		if i == 0 {
			listing = first
		}

		g.Go(func() error {
			slots[i] = e.collectPage(gctx, tier, page, listing)

			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumeration cancelled")

		return nil, stats, err
	}

	if len(slots) > 1 && slots[0].repeats(slots[1]) {
		e.logger.Warn(
			"first two pages returned the same listing, check registry.first_page",
			slog.String("tier", tier.String()),
			slog.Int("first_page", e.firstPage),
		)
	}

		seen := make(map[string]struct{})
	var items []job.WorkItem
	for _, slot := range slots {
		if slot.failed {
			stats.PageFailures++
		}
		stats.VersionFailures += slot.versionFailures

		for _, item := range slot.items {
			if _, dup := seen[item.ProviderFullName]; dup {
				continue
			}
			seen[item.ProviderFullName] = struct{}{}
			items = append(items, item)
		}
	}
	stats.Providers = len(items)

	span.SetAttributes(
		attribute.Int("enumerate.pages", stats.Pages),
		attribute.Int("enumerate.providers", stats.Providers),
	)

	return items, stats, nil
}

// collectPage resolves the latest version of every provider on one
// listing page. A nil listing is fetched from the registry.
func (e *Enumerator) collectPage(
	ctx context.Context,
	tier job.Tier,
	page int,
	listing *registry.ProviderPage,
) pageResult {
	var result pageResult

	if listing == nil {
		var err error
		listing, err = e.lister.ListProviders(ctx, tier, page)
		if err != nil {
			if ctx.Err() == nil {
				e.logger.Warn(
					"dropping page",
					slog.String("tier", tier.String()),
					slog.Int("page", page),
					slog.String("error", err.Error()),
				)
			}
			result.failed = true

			return result
		}
	}

	result.ids = make([]string, 0, len(listing.Providers))
	result.items = make([]job.WorkItem, 0, len(listing.Providers))
	for _, p := range listing.Providers {
		result.ids = append(result.ids, p.ID)
	}

	for _, p := range listing.Providers {
		if ctx.Err() != nil {
			return result
		}

		version, err := e.lister.LatestVersion(ctx, p.ID)
		if err != nil {
			if ctx.Err() == nil {
				e.logger.Warn(
					"dropping provider, versions unavailable",
					slog.String("tier", tier.String()),
					slog.String("provider", p.FullName),
					slog.String("error", err.Error()),
				)
			}
			result.versionFailures++

			continue
		}

		result.items = append(result.items, job.NewWorkItem(p.FullName, version, tier))
	}

	return result
}
