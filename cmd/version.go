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

package cmd

import (
	"fmt"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
)

// Build metadata, set with
// -ldflags "-X github.com/badarsebard/terraform-schemas/cmd.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := buildInfo()

		if jsonOutput {
			out, err := info.JSONString()
			if err != nil {
				return fmt.Errorf("encoding version info: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)

			return nil
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.String())

		return nil
	},
}

func buildInfo() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(
			serviceName,
			"Harvest provider schemas from the Terraform registry.",
			"https://github.com/badarsebard/terraform-schemas",
		),
		func(i *goversion.Info) {
			i.GitVersion = Version
			if Commit != "" {
				i.GitCommit = Commit
			}
			if Date != "" {
				i.BuildDate = Date
			}
		},
	)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
