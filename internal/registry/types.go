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

// Package registry provides the client for the provider registry's v2 API.
package registry

import (
	"context"
	"time"

	"github.com/badarsebard/terraform-schemas/internal/job"
)

// DefaultBaseURL is the public registry's v2 API root.
const DefaultBaseURL = "https://registry.terraform.io/v2"

// DefaultPageSize is the number of providers requested per listing page.
const DefaultPageSize = 100

// Lister is the read-only registry surface used by the enumerator.
type Lister interface {
	// ListProviders returns one page of providers for a tier.
	ListProviders(ctx context.Context, tier job.Tier, page int) (*ProviderPage, error)
	// LatestVersion returns the maximal published version of a provider, or
	// an empty string when it has none.
	LatestVersion(ctx context.Context, providerID string) (string, error)
}

// ProviderSummary identifies one provider in a listing page.
type ProviderSummary struct {
	// ID is the registry's opaque provider identifier.
	ID string
	// FullName is the namespaced name as published, e.g. "hashicorp/aws".
	FullName string
}

// ProviderPage is one page of a tier listing.
type ProviderPage struct {
	Providers  []ProviderSummary
	TotalPages int
}

// Options configures a Client.
type Options struct {
	// BaseURL is the v2 API root. Defaults to DefaultBaseURL.
	BaseURL string
	// PageSize is the listing page size. Defaults to DefaultPageSize.
	PageSize int
	// Timeout bounds each HTTP request, 0 means no limit.
	Timeout time.Duration
	// RetryMax is the number of retries after a failed request. 0 disables
	// retries.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the exponential backoff between
	// retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// VersionOrdering selects how LatestVersion picks the maximal version.
	VersionOrdering VersionOrdering
	// UserAgent is sent with every request.
	UserAgent string
}

// providerListResponse is the body of GET /providers.
type providerListResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			FullName string `json:"full-name"`
		} `json:"attributes"`
	} `json:"data"`
	Meta struct {
		Pagination struct {
			TotalPages int `json:"total-pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

// providerVersionsResponse is the body of GET /providers/{id}?include=provider-versions.
type providerVersionsResponse struct {
	Included []struct {
		Attributes struct {
			Version string `json:"version"`
		} `json:"attributes"`
	} `json:"included"`
}
