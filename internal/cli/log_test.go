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

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LogTestSuite struct {
	suite.Suite
}

func TestLogTestSuite(t *testing.T) {
	suite.Run(t, new(LogTestSuite))
}

func (suite *LogTestSuite) TestLogFatal() {
	tests := []struct {
		name      string
		message   string
		err       error
		kvPairs   []any
		wantAttrs map[string]any
	}{
		{
			name:    "when the config file cannot be loaded logs the path",
			message: "failed to load config",
			err: errors.New(
				"failed to read config /etc/terraform-schemas.yaml: open /etc/terraform-schemas.yaml: no such file or directory",
			),
			kvPairs: []any{"config", "/etc/terraform-schemas.yaml"},
			wantAttrs: map[string]any{
				"msg":    "failed to load config",
				"level":  "ERROR",
				"config": "/etc/terraform-schemas.yaml",
				"error": "failed to read config /etc/terraform-schemas.yaml: " +
					"open /etc/terraform-schemas.yaml: no such file or directory",
			},
		},
		{
			name:    "when validation fails logs the hint",
			message: "failed to load config",
			err: errors.New(
				`invalid config: Enumerate.Tiers[0]: unknown tier "verified", expected one of official, partner, community`,
			),
			kvPairs: []any{"config", ""},
			wantAttrs: map[string]any{
				"msg":    "failed to load config",
				"config": "",
				"error": `invalid config: Enumerate.Tiers[0]: unknown tier "verified", ` +
					`expected one of official, partner, community`,
			},
		},
		{
			name:    "when the metrics listener cannot bind logs the address",
			message: "failed to start metrics server",
			err:     errors.New("binding metrics listener: listen tcp :9090: bind: address already in use"),
			kvPairs: []any{"listen", ":9090"},
			wantAttrs: map[string]any{
				"msg":    "failed to start metrics server",
				"listen": ":9090",
				"error":  "binding metrics listener: listen tcp :9090: bind: address already in use",
			},
		},
		{
			name:    "when error is nil logs without error key",
			message: "failed to prepare run",
			wantAttrs: map[string]any{
				"msg": "failed to prepare run",
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			var exitCode int
			originalExit := osExit
			osExit = func(code int) { exitCode = code }
			defer func() { osExit = originalExit }()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			LogFatal(logger, tc.message, tc.err, tc.kvPairs...)

			suite.Equal(1, exitCode)

			var record map[string]any
			suite.Require().NoError(json.Unmarshal(buf.Bytes(), &record))
			for key, want := range tc.wantAttrs {
				suite.Equal(want, record[key], "attribute %s", key)
			}
			if tc.err == nil {
				suite.NotContains(record, "error")
			}
		})
	}
}
