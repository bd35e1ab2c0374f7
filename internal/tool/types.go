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

// Package tool drives the external provisioning tool (terraform or a
// CLI-compatible binary) against a prepared working directory.
package tool

import (
	"context"
)

// Runner implements the tool operations needed to extract a provider schema.
type Runner interface {
	// Init initializes the working directory, installing the declared provider.
	Init(ctx context.Context, dir string) (*Result, error)
	// ProvidersSchema dumps the schemas of the installed providers as JSON.
	ProvidersSchema(ctx context.Context, dir string) (*Result, error)
}

// Result contains the output of a tool invocation.
type Result struct {
	// Stdout is the standard output.
	Stdout string
	// Stderr is the standard error output.
	Stderr string
	// ExitCode is the process exit code.
	ExitCode int
	// DurationMs is the execution time in milliseconds.
	DurationMs int64
}

// Succeeded reports whether the tool exited with status 0.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}
