/*
MIT License

Copyright (c) 2025 mthm112

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package cli wires the scythe commands: run (one cleanup tick), schema
// (backing-table DDL), and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global state shared by all commands.
type RootOptions struct {
	// Version is the build version injected by main.
	Version string
}

// NewRootCommand creates the root command for the scythe CLI.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:   "scythe",
		Short: "Safety-gated reaper for idle hosted assistants",
		Long: `Scythe decides, once per scheduled tick, whether a hosted assistant that
bills by uptime should be deleted for inactivity. Four independent safety
gates (protected hours, conflicting workflow activity, activation lock,
recorded usage) each veto the deletion; only when all of them pass does the
reaper delete the assistant and verify it is gone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSchemaCommand())
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	cmd := NewRootCommand(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
