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

// Package job defines the unit of extraction work shared by the enumerator,
// the work queue and the extraction workers.
package job

import (
	"fmt"
	"strings"
)

// Tier represents the registry's publisher trust level for a provider.
type Tier string

const (
	// TierOfficial represents providers published by the registry owner.
	TierOfficial Tier = "official"
	// TierPartner represents providers published by verified partners.
	TierPartner Tier = "partner"
	// TierCommunity represents providers published by anyone else.
	TierCommunity Tier = "community"
)

// Tiers returns every tier in enumeration order.
func Tiers() []Tier {
	return []Tier{TierOfficial, TierPartner, TierCommunity}
}

// ParseTier converts a string into a Tier.
func ParseTier(
	s string,
) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tiers() {
		if t == known {
			return t, nil
		}
	}

	return "", fmt.Errorf("unknown tier: %q", s)
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// WorkItem is one (provider, version, tier) extraction job.
type WorkItem struct {
	// ProviderFullName is the lowercased namespaced name, e.g. "hashicorp/aws".
	ProviderFullName string
	// Version is the exact version to extract. Empty when the provider
	// has no published versions.
	Version string
	// Tier is the tier the provider was enumerated from.
	Tier Tier
}

// NewWorkItem creates a WorkItem, normalizing the provider name to lowercase.
func NewWorkItem(
	fullName string,
	version string,
	tier Tier,
) WorkItem {
	return WorkItem{
		ProviderFullName: strings.ToLower(fullName),
		Version:          version,
		Tier:             tier,
	}
}

// FileStem returns the provider name with path separators replaced so it
// can be used as a file name.
func (w WorkItem) FileStem() string {
	return SanitizeName(w.ProviderFullName)
}

// SanitizeName replaces the namespace separator of a provider full name,
// "hashicorp/aws" becomes "hashicorp-aws".
func SanitizeName(
	fullName string,
) string {
	return strings.ReplaceAll(fullName, "/", "-")
}

// Status represents how the extraction of a single item ended.
type Status string

const (
	// StatusSucceeded indicates the schema was dumped and archived.
	StatusSucceeded Status = "succeeded"
	// StatusInitFailed indicates the tool's init operation failed.
	StatusInitFailed Status = "init_failed"
	// StatusSchemaFailed indicates the tool's schema dump failed.
	StatusSchemaFailed Status = "schema_failed"
	// StatusWorkspaceFailed indicates the scratch workspace could not be
	// prepared, or the item had nothing to extract.
	StatusWorkspaceFailed Status = "workspace_failed"
	// StatusArchiveFailed indicates no artifact could be written.
	StatusArchiveFailed Status = "archive_failed"
)

// Outcome is the in-memory record of a processed item. It is never
// persisted; the archive artifact is the durable result.
type Outcome struct {
	Item   WorkItem
	Status Status
	// Path is the artifact written for the item, if any.
	Path string
	// Err carries the failure detail for non-successful outcomes.
	Err error
}

// Succeeded reports whether the outcome produced a schema artifact.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}
