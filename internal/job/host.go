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

package job

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// Injectable for testing.
var (
	hostInfoFn  = host.Info
	cpuCountsFn = cpu.Counts
	numCPUFn    = runtime.NumCPU
)

// Parallelism returns configured when it is positive, otherwise the
// number of logical CPUs on the host.
func Parallelism(
	configured int,
) int {
	if configured > 0 {
		return configured
	}

	if n, err := cpuCountsFn(true); err == nil && n > 0 {
		return n
	}

	return max(numCPUFn(), 1)
}

// Hostname returns the host name reported by the system, or "unknown".
func Hostname() string {
	info, err := hostInfoFn()
	if err != nil || info == nil || info.Hostname == "" {
		return "unknown"
	}

	return info.Hostname
}
