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

// Package config loads and validates the harvester configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/badarsebard/terraform-schemas/internal/validation"
)

// EnvPrefix prefixes environment variable overrides, e.g.
// TFSCHEMAS_WORKERS_COUNT.
const EnvPrefix = "tfschemas"

// defaults mirrors the documented configuration keys.
var defaults = map[string]any{
	"debug":                           false,
	"registry.url":                    "https://registry.terraform.io/v2",
	"registry.page_size":              100,
	"registry.first_page":             0,
	"registry.timeout":                "30s",
	"registry.retry_max":              0,
	"registry.retry_wait_min":         "1s",
	"registry.retry_wait_max":         "30s",
	"registry.version_ordering":       "lexical",
	"enumerate.tiers":                 []string{"official", "partner", "community"},
	"enumerate.parallelism":           0,
	"workers.count":                   0,
	"tool.binary":                     "terraform",
	"tool.timeout":                    "0s",
	"output.schemas_dir":              "schemas",
	"output.work_dir":                 "tf_work_dir",
	"telemetry.tracing.enabled":       false,
	"telemetry.tracing.exporter":      "",
	"telemetry.tracing.otlp_endpoint": "",
	"telemetry.metrics.listen":        "",
	"telemetry.metrics.path":          "",
}

// SetDefaults registers the default value of every configuration key on v.
// Registering every key also lets environment overrides reach keys that
// are absent from the config file.
func SetDefaults(
	v *viper.Viper,
) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Load reads the optional YAML file at path from appFs, applies
// environment overrides, and returns the validated configuration.
// An empty path uses defaults and the environment only.
func Load(
	v *viper.Viper,
	appFs afero.Fs,
	path string,
) (*Config, error) {
	SetDefaults(v)

	v.SetFs(appFs)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its field constraints.
func Validate(
	cfg *Config,
) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if errMsg, ok := validation.Struct(cfg); !ok {
		return fmt.Errorf("invalid config: %s", errMsg)
	}

	return nil
}
