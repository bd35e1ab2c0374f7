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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/badarsebard/terraform-schemas/internal/cli"
	"github.com/badarsebard/terraform-schemas/internal/enumerate"
	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/job/worker"
)

// runReport is the JSON form of the end-of-run summary.
type runReport struct {
	RunID       string       `json:"run_id"`
	Providers   int          `json:"providers"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	Interrupted bool         `json:"interrupted"`
	ElapsedMs   int64        `json:"elapsed_ms"`
	Tiers       []tierReport `json:"tiers"`
	Failures    []failure    `json:"failures"`
}

type tierReport struct {
	Tier            string `json:"tier"`
	Pages           int    `json:"pages"`
	Providers       int    `json:"providers"`
	PageFailures    int    `json:"page_failures"`
	VersionFailures int    `json:"version_failures"`
	Skipped         bool   `json:"skipped"`
	Succeeded       int    `json:"succeeded"`
	Failed          int    `json:"failed"`
}

type failure struct {
	Tier     string `json:"tier"`
	Provider string `json:"provider"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Artifact string `json:"artifact"`
}

func newRunReport(
	runID string,
	stats enumerate.Stats,
	summary worker.Summary,
) runReport {
	report := runReport{
		RunID:       runID,
		Providers:   stats.Providers(),
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Interrupted: summary.Interrupted,
		ElapsedMs:   summary.Elapsed.Milliseconds(),
		Tiers:       make([]tierReport, 0, len(stats.Tiers)),
		Failures:    make([]failure, 0, len(summary.Failures)),
	}

	for _, t := range stats.Tiers {
		counts := summary.ByTier[t.Tier]
		report.Tiers = append(report.Tiers, tierReport{
			Tier:            t.Tier.String(),
			Pages:           t.Pages,
			Providers:       t.Providers,
			PageFailures:    t.PageFailures,
			VersionFailures: t.VersionFailures,
			Skipped:         t.Skipped,
			Succeeded:       counts.Succeeded,
			Failed:          counts.Failed,
		})
	}

	failures := append([]job.Outcome(nil), summary.Failures...)
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Item.Tier != failures[j].Item.Tier {
			return failures[i].Item.Tier < failures[j].Item.Tier
		}
		return failures[i].Item.ProviderFullName < failures[j].Item.ProviderFullName
	})
	for _, o := range failures {
		report.Failures = append(report.Failures, failure{
			Tier:     o.Item.Tier.String(),
			Provider: o.Item.ProviderFullName,
			Version:  o.Item.Version,
			Status:   string(o.Status),
			Artifact: o.Path,
		})
	}

	return report
}

// buildSummarySections lays out the per-tier counts and the failed items.
func buildSummarySections(
	report runReport,
) []cli.Section {
	tiers := cli.Section{
		Title: "Tiers",
		Headers: []string{
			"tier", "pages", "providers", "succeeded", "failed", "page failures", "version failures",
		},
	}
	for _, t := range report.Tiers {
		name := t.Tier
		if t.Skipped {
			name += " (skipped)"
		}
		tiers.Rows = append(tiers.Rows, []string{
			name,
			strconv.Itoa(t.Pages),
			strconv.Itoa(t.Providers),
			strconv.Itoa(t.Succeeded),
			strconv.Itoa(t.Failed),
			strconv.Itoa(t.PageFailures),
			strconv.Itoa(t.VersionFailures),
		})
	}

	sections := []cli.Section{tiers}
	if len(report.Failures) == 0 {
		return sections
	}

	failed := cli.Section{
		Title:   "Failures",
		Headers: []string{"tier", "provider", "version", "status", "artifact"},
	}
	for _, f := range report.Failures {
		failed.Rows = append(failed.Rows, []string{f.Tier, f.Provider, f.Version, f.Status, f.Artifact})
	}

	return append(sections, failed)
}

// printSummary writes the end-of-run summary to w, as JSON when
// jsonOutput is set.
func printSummary(
	w io.Writer,
	runID string,
	stats enumerate.Stats,
	summary worker.Summary,
	jsonOutput bool,
) error {
	report := newRunReport(runID, stats, summary)

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}

		return nil
	}

	_, _ = fmt.Fprintln(w)
	cli.PrintKV(w, "Run", runID, "Elapsed", cli.FormatElapsed(summary.Elapsed))
	cli.PrintKV(w,
		"Providers", strconv.Itoa(report.Providers),
		"Succeeded", strconv.Itoa(report.Succeeded),
		"Failed", strconv.Itoa(report.Failed),
	)
	if report.Interrupted {
		_, _ = fmt.Fprintln(w, "  "+cli.DimStyle.Render("run interrupted before the queue drained"))
	}
	cli.PrintCompactTable(w, buildSummarySections(report))

	return nil
}
