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

package archive_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/badarsebard/terraform-schemas/internal/archive"
	"github.com/badarsebard/terraform-schemas/internal/job"
)

// renameFailFs refuses to rename files.
type renameFailFs struct {
	afero.Fs
}

func (renameFailFs) Rename(string, string) error {
	return errors.New("cross-device link")
}

// removeSuffixFailFs refuses to remove files ending in suffix.
type removeSuffixFailFs struct {
	afero.Fs
	suffix string
}

func (f removeSuffixFailFs) Remove(name string) error {
	if strings.HasSuffix(name, f.suffix) {
		return errors.New("permission denied")
	}

	return f.Fs.Remove(name)
}

type ArchivePublicTestSuite struct {
	suite.Suite

	appFs afero.Fs
	sut   *archive.Archive
	item  job.WorkItem
}

func (s *ArchivePublicTestSuite) SetupTest() {
	s.appFs = afero.NewMemMapFs()
	s.sut = archive.New(s.appFs, "/out/schemas")
	s.item = job.NewWorkItem("hashicorp/aws", "5.1.0", job.TierOfficial)
	s.Require().NoError(s.sut.Prepare(job.Tiers()))
}

func (s *ArchivePublicTestSuite) TestPrepareCreatesTierDirs() {
	for _, tier := range job.Tiers() {
		exists, err := afero.DirExists(s.appFs, "/out/schemas/"+tier.String())
		s.NoError(err)
		s.True(exists, "tier dir %s", tier)
	}
	s.Equal("/out/schemas", s.sut.Root())
}

func (s *ArchivePublicTestSuite) TestPaths() {
	s.Equal("/out/schemas/official/hashicorp-aws.json", s.sut.SchemaPath(s.item))
	s.Equal("/out/schemas/official/hashicorp-aws.err.log", s.sut.ErrorPath(s.item))
}

func (s *ArchivePublicTestSuite) TestWrite() {
	tests := []struct {
		name       string
		setup      func()
		write      func() (string, error)
		wantPath   string
		wantData   string
		absentPath string
	}{
		{
			name: "schema payload written verbatim",
			write: func() (string, error) {
				return s.sut.WriteSchema(s.item, []byte(`{"format_version":"1.0"}`))
			},
			wantPath:   "/out/schemas/official/hashicorp-aws.json",
			wantData:   `{"format_version":"1.0"}`,
			absentPath: "/out/schemas/official/hashicorp-aws.err.log",
		},
		{
			name: "error text written verbatim",
			write: func() (string, error) {
				return s.sut.WriteError(s.item, "no such provider")
			},
			wantPath:   "/out/schemas/official/hashicorp-aws.err.log",
			wantData:   "no such provider",
			absentPath: "/out/schemas/official/hashicorp-aws.json",
		},
		{
			name: "schema replaces a stale error artifact",
			setup: func() {
				_, err := s.sut.WriteError(s.item, "old failure")
				s.Require().NoError(err)
			},
			write: func() (string, error) {
				return s.sut.WriteSchema(s.item, []byte(`{}`))
			},
			wantPath:   "/out/schemas/official/hashicorp-aws.json",
			wantData:   `{}`,
			absentPath: "/out/schemas/official/hashicorp-aws.err.log",
		},
		{
			name: "error replaces a stale schema artifact",
			setup: func() {
				_, err := s.sut.WriteSchema(s.item, []byte(`{}`))
				s.Require().NoError(err)
			},
			write: func() (string, error) {
				return s.sut.WriteError(s.item, "init failed")
			},
			wantPath:   "/out/schemas/official/hashicorp-aws.err.log",
			wantData:   "init failed",
			absentPath: "/out/schemas/official/hashicorp-aws.json",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}

			path, err := tc.write()
			s.Require().NoError(err)
			s.Equal(tc.wantPath, path)

			data, err := afero.ReadFile(s.appFs, tc.wantPath)
			s.Require().NoError(err)
			s.Equal(tc.wantData, string(data))

			exists, err := afero.Exists(s.appFs, tc.absentPath)
			s.NoError(err)
			s.False(exists)
		})
	}
}

func (s *ArchivePublicTestSuite) TestWriteFailure() {
	readOnly := archive.New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out/schemas")

	_, err := readOnly.WriteSchema(s.item, []byte(`{}`))
	s.Error(err)
	s.Contains(err.Error(), "writing artifact")

	err = readOnly.Prepare(job.Tiers())
	s.Error(err)
	s.Contains(err.Error(), "creating tier directory")
}

func (s *ArchivePublicTestSuite) TestWriteLeavesOneArtifact() {
	tests := []struct {
		name      string
		wrapFs    func(afero.Fs) afero.Fs
		setup     func()
		write     func(*archive.Archive) (string, error)
		wantErr   string
		wantNames []string
	}{
		{
			name: "when the rename fails no partial schema is left",
			wrapFs: func(fs afero.Fs) afero.Fs {
				return renameFailFs{Fs: fs}
			},
			write: func(a *archive.Archive) (string, error) {
				return a.WriteSchema(s.item, []byte(`{"format_version":"1.0"}`))
			},
			wantErr:   "writing artifact",
			wantNames: []string{},
		},
		{
			name: "when a stale error cannot be removed the schema is not written",
			wrapFs: func(fs afero.Fs) afero.Fs {
				return removeSuffixFailFs{Fs: fs, suffix: archive.ErrorExt}
			},
			setup: func() {
				_, err := s.sut.WriteError(s.item, "old failure")
				s.Require().NoError(err)
			},
			write: func(a *archive.Archive) (string, error) {
				return a.WriteSchema(s.item, []byte(`{}`))
			},
			wantErr:   "removing stale artifact",
			wantNames: []string{"hashicorp-aws.err.log"},
		},
		{
			name: "when a stale schema cannot be removed the error is not written",
			wrapFs: func(fs afero.Fs) afero.Fs {
				return removeSuffixFailFs{Fs: fs, suffix: archive.SchemaExt}
			},
			setup: func() {
				_, err := s.sut.WriteSchema(s.item, []byte(`{}`))
				s.Require().NoError(err)
			},
			write: func(a *archive.Archive) (string, error) {
				return a.WriteError(s.item, "init failed")
			},
			wantErr:   "removing stale artifact",
			wantNames: []string{"hashicorp-aws.json"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}

			sut := archive.New(tc.wrapFs(s.appFs), "/out/schemas")
			path, err := tc.write(sut)

			s.Error(err)
			s.Contains(err.Error(), tc.wantErr)
			s.Empty(path)

			entries, err := afero.ReadDir(s.appFs, s.sut.TierDir(job.TierOfficial))
			s.Require().NoError(err)
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			s.Equal(tc.wantNames, names)
		})
	}
}

func (s *ArchivePublicTestSuite) TestWriteMode() {
	path, err := s.sut.WriteSchema(s.item, []byte(`{}`))
	s.Require().NoError(err)

	info, err := s.appFs.Stat(path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o644), info.Mode().Perm())
}

func TestArchivePublicTestSuite(t *testing.T) {
	suite.Run(t, new(ArchivePublicTestSuite))
}
