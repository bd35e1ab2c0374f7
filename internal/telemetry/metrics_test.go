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

package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/exporters/prometheus"

	"github.com/badarsebard/terraform-schemas/internal/config"
)

type InitMeterTestSuite struct {
	suite.Suite
}

func (s *InitMeterTestSuite) TestInitMeterPath() {
	tests := []struct {
		name     string
		cfg      config.MetricsConfig
		expected string
	}{
		{
			name:     "when path is empty uses default /metrics",
			cfg:      config.MetricsConfig{},
			expected: DefaultMetricsPath,
		},
		{
			name:     "when path is set uses it",
			cfg:      config.MetricsConfig{Path: "/scrape"},
			expected: "/scrape",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			handler, path, shutdown, err := InitMeter(tc.cfg)

			s.NoError(err)
			s.NotNil(handler)
			s.Equal(tc.expected, path)
			s.NotNil(shutdown)
			s.NoError(shutdown(context.Background()))
		})
	}
}

func (s *InitMeterTestSuite) TestInitMeterExporterError() {
	tests := []struct {
		name string
	}{
		{
			name: "when prometheus exporter creation fails returns error",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			original := prometheusNewFn
			defer func() { prometheusNewFn = original }()

			prometheusNewFn = func(
				_ ...prometheus.Option,
			) (*prometheus.Exporter, error) {
				return nil, errors.New("prometheus exporter failed")
			}

			handler, path, shutdown, err := InitMeter(config.MetricsConfig{})

			s.Error(err)
			s.Nil(handler)
			s.Empty(path)
			s.Nil(shutdown)
			s.Contains(err.Error(), "creating prometheus exporter")
		})
	}
}

func TestInitMeterTestSuite(t *testing.T) {
	suite.Run(t, new(InitMeterTestSuite))
}
