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

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/badarsebard/terraform-schemas/internal/registry"
)

type VersionPublicTestSuite struct {
	suite.Suite
}

func (s *VersionPublicTestSuite) TestMaxVersion() {
	tests := []struct {
		name     string
		versions []string
		ordering registry.VersionOrdering
		expected string
	}{
		{
			name:     "lexical ordering keeps string maximum",
			versions: []string{"1.2.0", "1.10.0", "1.9.0"},
			ordering: registry.OrderingLexical,
			expected: "1.9.0",
		},
		{
			name:     "semver ordering picks semantic maximum",
			versions: []string{"1.2.0", "1.10.0", "1.9.0"},
			ordering: registry.OrderingSemver,
			expected: "1.10.0",
		},
		{
			name:     "empty ordering behaves as lexical",
			versions: []string{"1.2.0", "1.10.0", "1.9.0"},
			expected: "1.9.0",
		},
		{
			name:     "lexical with simple list",
			versions: []string{"5.0.0", "5.1.0"},
			ordering: registry.OrderingLexical,
			expected: "5.1.0",
		},
		{
			name:     "no versions",
			versions: nil,
			ordering: registry.OrderingLexical,
			expected: "",
		},
		{
			name:     "no versions with semver",
			versions: []string{},
			ordering: registry.OrderingSemver,
			expected: "",
		},
		{
			name:     "semver prefers release over prerelease",
			versions: []string{"2.0.0-beta1", "2.0.0", "1.9.9"},
			ordering: registry.OrderingSemver,
			expected: "2.0.0",
		},
		{
			name:     "semver ignores unparseable entries when any parse",
			versions: []string{"not-a-version", "0.1.0"},
			ordering: registry.OrderingSemver,
			expected: "0.1.0",
		},
		{
			name:     "semver falls back to lexical when nothing parses",
			versions: []string{"abc", "abd"},
			ordering: registry.OrderingSemver,
			expected: "abd",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, registry.MaxVersion(tc.versions, tc.ordering))
		})
	}
}

func (s *VersionPublicTestSuite) TestParseVersionOrdering() {
	tests := []struct {
		name        string
		input       string
		expected    registry.VersionOrdering
		expectError bool
	}{
		{name: "empty defaults to lexical", input: "", expected: registry.OrderingLexical},
		{name: "lexical", input: "lexical", expected: registry.OrderingLexical},
		{name: "semver", input: "semver", expected: registry.OrderingSemver},
		{name: "unknown", input: "calver", expectError: true},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			got, err := registry.ParseVersionOrdering(tc.input)
			if tc.expectError {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}

func TestVersionPublicTestSuite(t *testing.T) {
	suite.Run(t, new(VersionPublicTestSuite))
}
