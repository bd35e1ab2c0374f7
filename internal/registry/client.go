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

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/badarsebard/terraform-schemas/internal/job"
	"github.com/badarsebard/terraform-schemas/internal/telemetry"
)

// Client queries the registry's v2 API.
type Client struct {
	logger   *slog.Logger
	client   *retryablehttp.Client
	baseURL  string
	pageSize int
	ordering VersionOrdering
	requests metric.Int64Counter
}

// New returns a new initialized registry client.
func New(
	logger *slog.Logger,
	opts Options,
) *Client {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ordering := opts.VersionOrdering
	if ordering == "" {
		ordering = OrderingLexical
	}

	// Instrument creation only fails on invalid names; a nil counter is
	// never returned by the global meter.
	requests, _ := telemetry.Meter().Int64Counter(
		"schemas.registry.requests",
		metric.WithDescription("Registry API requests by operation and result."),
	)

	return &Client{
		logger:   logger,
		client:   NewHTTPClient(logger, opts),
		baseURL:  baseURL,
		pageSize: pageSize,
		ordering: ordering,
		requests: requests,
	}
}

// NewHTTPClient builds the retrying HTTP client used for registry requests
// on top of a pooled clean client. With RetryMax 0 every request is
// attempted exactly once.
func NewHTTPClient(
	logger *slog.Logger,
	opts Options,
) *retryablehttp.Client {
	base := cleanhttp.DefaultPooledClient()
	base.Timeout = opts.Timeout
	base.Transport = otelhttp.NewTransport(&loggingTransport{
		base:      base.Transport,
		userAgent: opts.UserAgent,
		logger:    logger,
	})

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.Logger = logger
	rc.RequestLogHook = requestLogHook
	rc.ErrorHandler = maxRetryErrorHandler

	return rc
}

// ListProviders returns one page of the provider listing for tier.
func (c *Client) ListProviders(
	ctx context.Context,
	tier job.Tier,
	page int,
) (*ProviderPage, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "registry.list_providers",
		trace.WithAttributes(
			attribute.String("registry.tier", tier.String()),
			attribute.Int("registry.page", page),
		),
	)
	defer span.End()

	q := url.Values{}
	q.Set("filter[tier]", tier.String())
	q.Set("page[number]", strconv.Itoa(page))
	q.Set("page[size]", strconv.Itoa(c.pageSize))
	u := c.baseURL + "/providers?" + q.Encode()

	var body providerListResponse
	if err := c.getJSON(ctx, "list providers", u, &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list providers failed")
		return nil, err
	}

	result := &ProviderPage{
		Providers:  make([]ProviderSummary, 0, len(body.Data)),
		TotalPages: body.Meta.Pagination.TotalPages,
	}
	for _, p := range body.Data {
		result.Providers = append(result.Providers, ProviderSummary{
			ID:       p.ID,
			FullName: p.Attributes.FullName,
		})
	}

	span.SetAttributes(
		attribute.Int("registry.providers", len(result.Providers)),
		attribute.Int("registry.total_pages", result.TotalPages),
	)

	return result, nil
}

// LatestVersion returns the maximal version listed for providerID under the
// client's version ordering, or an empty string when none are listed.
func (c *Client) LatestVersion(
	ctx context.Context,
	providerID string,
) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "registry.latest_version",
		trace.WithAttributes(
			attribute.String("registry.provider_id", providerID),
		),
	)
	defer span.End()

	u := c.baseURL + "/providers/" + url.PathEscape(providerID) + "?include=provider-versions"

	var body providerVersionsResponse
	if err := c.getJSON(ctx, "list provider versions", u, &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list provider versions failed")
		return "", err
	}

	versions := make([]string, 0, len(body.Included))
	for _, inc := range body.Included {
		versions = append(versions, inc.Attributes.Version)
	}

	latest := MaxVersion(versions, c.ordering)
	span.SetAttributes(attribute.String("registry.latest_version", latest))

	return latest, nil
}

func (c *Client) getJSON(
	ctx context.Context,
	op string,
	u string,
	v any,
) error {
	err := c.doGetJSON(ctx, op, u, v)

	result := "ok"
	if err != nil {
		result = "error"
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", result),
	))

	return err
}

func (c *Client) doGetJSON(
	ctx context.Context,
	op string,
	u string,
	v any,
) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UnavailableError{Op: op, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &UnavailableError{Op: op, URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &UnavailableError{
			Op:  op,
			URL: u,
			Err: fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &UnavailableError{
			Op:  op,
			URL: u,
			Err: fmt.Errorf("decoding response: %w", err),
		}
	}

	return nil
}

func requestLogHook(
	logger retryablehttp.Logger,
	req *http.Request,
	i int,
) {
	if i > 0 && logger != nil {
		logger.Printf("retrying registry request to %s (attempt %d)", req.URL.String(), i+1)
	}
}

// maxRetryErrorHandler always returns a non-nil error, carrying the last
// status or transport error and the number of attempts made.
func maxRetryErrorHandler(
	resp *http.Response,
	err error,
	numTries int,
) (*http.Response, error) {
	if resp != nil {
		_ = resp.Body.Close()
	}

	cause := err
	if cause == nil {
		if resp != nil {
			cause = fmt.Errorf("%s returned from %s", resp.Status, resp.Request.URL)
		} else {
			cause = errors.New("no response")
		}
	}

	if numTries > 1 {
		return nil, fmt.Errorf("request failed after %d attempts: %w", numTries, cause)
	}

	return nil, fmt.Errorf("request failed: %w", cause)
}

// loggingTransport sets the User-Agent header and logs each round trip.
type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
	logger    *slog.Logger
}

// RoundTrip implements the http.RoundTripper interface.
func (t *loggingTransport) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.DebugContext(req.Context(), "http request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return nil, err
	}

	t.logger.DebugContext(req.Context(), "http response",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}
