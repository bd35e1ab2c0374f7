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
	"fmt"

	goversion "github.com/hashicorp/go-version"
)

// VersionOrdering selects how the latest version of a provider is chosen.
type VersionOrdering string

const (
	// OrderingLexical compares version strings byte-wise, so "1.9.0" sorts
	// above "1.10.0". It is the default.
	OrderingLexical VersionOrdering = "lexical"
	// OrderingSemver compares versions by semantic version precedence.
	OrderingSemver VersionOrdering = "semver"
)

// ParseVersionOrdering converts a string into a VersionOrdering. An empty
// string selects OrderingLexical.
func ParseVersionOrdering(
	s string,
) (VersionOrdering, error) {
	switch VersionOrdering(s) {
	case "", OrderingLexical:
		return OrderingLexical, nil
	case OrderingSemver:
		return OrderingSemver, nil
	default:
		return "", fmt.Errorf("unknown version ordering: %q", s)
	}
}

// MaxVersion returns the maximal version of versions under ordering, or an
// empty string when versions is empty.
//
// With OrderingSemver, strings that do not parse as versions lose to every
// parseable version and are compared lexically among themselves.
func MaxVersion(
	versions []string,
	ordering VersionOrdering,
) string {
	if ordering == OrderingSemver {
		return maxSemver(versions)
	}

	return maxLexical(versions)
}

func maxLexical(
	versions []string,
) string {
	latest := ""
	for _, v := range versions {
		if v > latest {
			latest = v
		}
	}

	return latest
}

func maxSemver(
	versions []string,
) string {
	var (
		best     *goversion.Version
		bestRaw  string
		invalids []string
	)

	for _, raw := range versions {
		v, err := goversion.NewVersion(raw)
		if err != nil {
			invalids = append(invalids, raw)
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}

	if best != nil {
		return bestRaw
	}

	return maxLexical(invalids)
}
