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

package config

import (
	"time"
)

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	Registry  Registry  `mapstructure:"registry"`
	Enumerate Enumerate `mapstructure:"enumerate"`
	Workers   Workers   `mapstructure:"workers"`
	Tool      Tool      `mapstructure:"tool"`
	Output    Output    `mapstructure:"output"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Registry configuration settings for the provider registry client.
type Registry struct {
	// URL is the base URL of the registry's v2 API.
	URL string `mapstructure:"url"              validate:"required,url"`
	// PageSize is the number of providers requested per listing page.
	PageSize int `mapstructure:"page_size"        validate:"min=1"`
	// FirstPage is the index of the first listing page. The public
	// registry numbers pages from 1 and answers page 0 with the listing of
	// page 1, so the default of 0 repeats the first page and never reaches
	// the last one. Set 1 to walk every page.
	FirstPage int `mapstructure:"first_page"       validate:"min=0"`
	// Timeout bounds each HTTP attempt. Retries are separate attempts, each
	// with its own timeout, plus the backoff between them.
	Timeout time.Duration `mapstructure:"timeout"          validate:"min=0s"`
	// RetryMax is the number of retries after a failed request.
	// Zero attempts every request exactly once.
	RetryMax int `mapstructure:"retry_max"        validate:"min=0"`
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"   validate:"min=0s"`
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"   validate:"min=0s"`
	// VersionOrdering selects how the latest version is chosen:
	// "lexical" or "semver".
	VersionOrdering string `mapstructure:"version_ordering" validate:"oneof=lexical semver"`
}

// Enumerate configuration settings for registry enumeration.
type Enumerate struct {
	// Tiers lists the tiers to enumerate, in order.
	Tiers []string `mapstructure:"tiers"       validate:"required,min=1,unique,dive,valid_tier"`
	// Parallelism bounds concurrent registry requests per tier.
	// Zero uses the host CPU count.
	Parallelism int `mapstructure:"parallelism" validate:"min=0"`
}

// Workers configuration settings for the extraction pool.
type Workers struct {
	// Count is the number of extraction workers. Zero uses the host CPU count.
	Count int `mapstructure:"count" validate:"min=0"`
}

// Tool configuration settings for the external provisioning tool.
type Tool struct {
	// Binary is the tool executable, resolved through PATH.
	Binary string `mapstructure:"binary"  validate:"required"`
	// Timeout bounds each tool invocation. Zero disables the limit.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0s"`
}

// Output configuration settings for the archive and scratch space.
type Output struct {
	// SchemasDir is the root of the schema archive.
	SchemasDir string `mapstructure:"schemas_dir" validate:"required"`
	// WorkDir is the parent directory of per-item workspaces.
	WorkDir string `mapstructure:"work_dir"    validate:"required"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Listen is the address serving the scrape endpoint during a run
	// (e.g., ":9090"). Empty disables the endpoint.
	Listen string `mapstructure:"listen"`
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"      validate:"omitempty,oneof=none stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"required_if=Exporter otlp"`
}
