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

// Package exec runs external commands and captures their output.
package exec

import (
	"context"
	"log/slog"
	"time"
)

// Manager interface for executing commands.
type Manager interface {
	// RunCmdFull executes the provided command with separate stdout and
	// stderr capture, an optional working directory, and an optional
	// timeout. A non-zero exit is reported through CmdResult.ExitCode,
	// not as an error.
	RunCmdFull(
		ctx context.Context,
		name string,
		args []string,
		cwd string,
		timeout time.Duration,
	) (*CmdResult, error)
}

// Exec runs commands on the local host.
type Exec struct {
	logger *slog.Logger
}

// New factory to create a new Exec instance.
func New(
	logger *slog.Logger,
) *Exec {
	return &Exec{
		logger: logger,
	}
}

// CmdResult contains the captured output of a command.
type CmdResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64
}
