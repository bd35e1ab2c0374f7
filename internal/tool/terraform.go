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

package tool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/badarsebard/terraform-schemas/internal/exec"
)

// DefaultBinary is the tool executable used when none is configured.
const DefaultBinary = "terraform"

var (
	initArgs   = []string{"init", "-no-color", "-input=false"}
	schemaArgs = []string{"providers", "schema", "-json", "-no-color"}
)

// Terraform runs the terraform command-line tool through an exec.Manager.
type Terraform struct {
	logger      *slog.Logger
	execManager exec.Manager
	binary      string
	timeout     time.Duration
}

// New factory to create a new Terraform runner. An empty binary falls back
// to DefaultBinary; a zero timeout means invocations are not time-limited.
func New(
	logger *slog.Logger,
	execManager exec.Manager,
	binary string,
	timeout time.Duration,
) *Terraform {
	if binary == "" {
		binary = DefaultBinary
	}

	return &Terraform{
		logger:      logger,
		execManager: execManager,
		binary:      binary,
		timeout:     timeout,
	}
}

// Init runs "init" in dir.
func (t *Terraform) Init(
	ctx context.Context,
	dir string,
) (*Result, error) {
	return t.run(ctx, "init", initArgs, dir)
}

// ProvidersSchema runs "providers schema -json" in dir.
func (t *Terraform) ProvidersSchema(
	ctx context.Context,
	dir string,
) (*Result, error) {
	return t.run(ctx, "providers schema", schemaArgs, dir)
}

func (t *Terraform) run(
	ctx context.Context,
	operation string,
	args []string,
	dir string,
) (*Result, error) {
	t.logger.DebugContext(ctx, "running tool",
		slog.String("binary", t.binary),
		slog.String("operation", operation),
		slog.String("dir", dir),
	)

	cmdResult, err := t.execManager.RunCmdFull(ctx, t.binary, args, dir, t.timeout)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", t.binary, operation, err)
	}

	return &Result{
		Stdout:     cmdResult.Stdout,
		Stderr:     cmdResult.Stderr,
		ExitCode:   cmdResult.ExitCode,
		DurationMs: cmdResult.DurationMs,
	}, nil
}
