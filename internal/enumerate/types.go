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

// Package enumerate walks the registry listing of each tier and turns every
// provider into a work item.
package enumerate

import (
	"log/slog"
	"slices"

	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/registry"
)

// Queue receives enumerated work items.
type Queue interface {
	Put(item job.WorkItem) error
}

// Enumerator produces the work items of every configured tier.
type Enumerator struct {
	logger      *slog.Logger
	lister      registry.Lister
	tiers       []job.Tier
	firstPage   int
	parallelism int
}

// TierStats counts what enumeration of one tier produced.
type TierStats struct {
	Tier job.Tier
	// Pages is the number of listing pages the registry reported, zero for
	// an empty tier.
	Pages int
	// Providers is the number of work items produced.
	Providers int
	// PageFailures is the number of listing pages that could not be fetched.
	PageFailures int
	// VersionFailures is the number of providers dropped because their
	// versions could not be fetched.
	VersionFailures int
	// Skipped is set when the first page failed and the tier was dropped.
	Skipped bool
}

// Stats summarizes an enumeration run.
type Stats struct {
	Tiers []TierStats
}

// Providers returns the total number of work items produced.
func (s Stats) Providers() int {
	total := 0
	for _, t := range s.Tiers {
		total += t.Providers
	}

	return total
}

// Failures returns the total number of dropped pages and providers.
func (s Stats) Failures() int {
	total := 0
	for _, t := range s.Tiers {
		total += t.PageFailures + t.VersionFailures
	}

	return total
}

// pageResult is the slot filled by one page task.
type pageResult struct {
	// ids lists the provider IDs of the page as returned by the registry.
	ids             []string
	items           []job.WorkItem
	failed          bool
	versionFailures int
}

// repeats reports whether both pages listed the same non-empty providers.
func (r pageResult) repeats(
	other pageResult,
) bool {
	return len(r.ids) > 0 && slices.Equal(r.ids, other.ids)
}
