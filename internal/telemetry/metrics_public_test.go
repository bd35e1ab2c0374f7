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

package telemetry_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/badarsebard/terraform-schemas/internal/config"
	"github.com/badarsebard/terraform-schemas/internal/telemetry"
)

type MetricsServerPublicTestSuite struct {
	suite.Suite

	ctx context.Context
}

func (s *MetricsServerPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *MetricsServerPublicTestSuite) TestServe() {
	handler, path, shutdown, err := telemetry.InitMeter(config.MetricsConfig{})
	s.Require().NoError(err)
	defer func() { _ = shutdown(s.ctx) }()

	counter, err := telemetry.Meter().Int64Counter("schemas.items.processed")
	s.Require().NoError(err)
	counter.Add(s.ctx, 3)

	server, err := telemetry.NewMetricsServer(slog.Default(), "127.0.0.1:0", path, handler)
	s.Require().NoError(err)
	server.Start()

	stopCtx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	defer server.Stop(stopCtx)

	resp, err := http.Get("http://" + server.Addr() + path)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "schemas_items_processed")
}

func (s *MetricsServerPublicTestSuite) TestBindError() {
	server, err := telemetry.NewMetricsServer(
		slog.Default(),
		"256.0.0.1:99999",
		telemetry.DefaultMetricsPath,
		http.NotFoundHandler(),
	)

	s.Error(err)
	s.Nil(server)
	s.Contains(err.Error(), "binding metrics listener")
}

func TestMetricsServerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsServerPublicTestSuite))
}
