package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cursor-workspace",
	Short: "Manage Cursor IDE workspace identity and storage",
	Long: `A CLI tool to manage the per-project metadata Cursor IDE keeps
under workspaceStorage.

Cursor identifies each project by a hash of its folder path, so renaming or
moving a project folder silently orphans its chat history and settings. This
tool re-binds that metadata to the project's new location.

Features:
  • List workspace records with their bound project paths
  • Rename/move a project's metadata to a new path (atomic, dry-runnable)
  • Clone metadata to a second working copy with fresh chat identities
  • Back up and restore a workspace as a portable archive
  • Sweep records whose project folder no longer exists
  • Export chat history (JSONL, Markdown, YAML, JSON)

Quick Start:
  cursor-workspace list                          # List all workspace records
  cursor-workspace rename /old/path /new/path    # Re-bind after a move
  cursor-workspace export /my/project --format md

For detailed usage, see: https://github.com/iksnae/cursor-workspace`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Validation failures (refused operations, ambiguous targets) exit 2;
// everything else that fails exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ve *internal.ValidationError
	var ae *internal.AmbiguousTargetError
	if errors.As(err, &ve) || errors.As(err, &ae) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to Cursor's User dir or workspaceStorage)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
