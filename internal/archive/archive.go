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

// Package archive writes extraction artifacts into the per-tier schema
// directory tree.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/badarsebard/terraform-schemas/internal/job"
)

const (
	// SchemaExt is the extension of a successful schema artifact.
	SchemaExt = ".json"
	// ErrorExt is the extension of a failed extraction artifact.
	ErrorExt = ".err.log"
)

// Archive is the artifact sink rooted at the schemas directory. Each item
// maps to <root>/<tier>/<sanitized-name>.json or .err.log, and writing one
// kind removes the other so an item never has both.
//
// Staged files start with "." and never match either extension.
type Archive struct {
	appFs afero.Fs
	root  string
}

// New creates an Archive rooted at root.
func New(
	appFs afero.Fs,
	root string,
) *Archive {
	return &Archive{
		appFs: appFs,
		root:  root,
	}
}

// Root returns the archive root directory.
func (a *Archive) Root() string {
	return a.root
}

// Prepare creates the tier directories.
func (a *Archive) Prepare(
	tiers []job.Tier,
) error {
	for _, tier := range tiers {
		dir := a.TierDir(tier)
		if err := a.appFs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating tier directory %s: %w", dir, err)
		}
	}

	return nil
}

// TierDir returns the directory holding artifacts for tier.
func (a *Archive) TierDir(
	tier job.Tier,
) string {
	return filepath.Join(a.root, tier.String())
}

// SchemaPath returns the path of the schema artifact for item.
func (a *Archive) SchemaPath(
	item job.WorkItem,
) string {
	return filepath.Join(a.TierDir(item.Tier), item.FileStem()+SchemaExt)
}

// ErrorPath returns the path of the error artifact for item.
func (a *Archive) ErrorPath(
	item job.WorkItem,
) string {
	return filepath.Join(a.TierDir(item.Tier), item.FileStem()+ErrorExt)
}

// WriteSchema stores the raw schema payload for item.
func (a *Archive) WriteSchema(
	item job.WorkItem,
	payload []byte,
) (string, error) {
	return a.write(a.SchemaPath(item), a.ErrorPath(item), payload)
}

// WriteError stores the raw error text for item.
func (a *Archive) WriteError(
	item job.WorkItem,
	text string,
) (string, error) {
	return a.write(a.ErrorPath(item), a.SchemaPath(item), []byte(text))
}

// write stages data next to path and renames it into place, so a partial
// artifact is never visible. The counterpart is removed before the rename;
// if that fails nothing new is written.
func (a *Archive) write(
	path string,
	counterpart string,
	data []byte,
) (string, error) {
	staged, err := a.stage(path, data)
	if err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", path, err)
	}

	if err := a.appFs.Remove(counterpart); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = a.appFs.Remove(staged)

		return "", fmt.Errorf("removing stale artifact %s: %w", counterpart, err)
	}

	if err := a.appFs.Rename(staged, path); err != nil {
		_ = a.appFs.Remove(staged)

		return "", fmt.Errorf("writing artifact %s: %w", path, err)
	}

	return path, nil
}

// stage writes data to a hidden temporary file in the directory of path
// and returns its name.
func (a *Archive) stage(
	path string,
	data []byte,
) (string, error) {
	f, err := afero.TempFile(a.appFs, filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	name := f.Name()

	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = a.appFs.Chmod(name, 0o644)
	}
	if err != nil {
		_ = a.appFs.Remove(name)

		return "", err
	}

	return name, nil
}
