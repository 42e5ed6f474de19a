package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	renameDryRun     bool
	renameCopy       bool
	renameYes        bool
	renameWithFolder bool
)

var successStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("42"))

var warnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("214"))

var renameCmd = &cobra.Command{
	Use:   "rename <old-path> <new-path>",
	Short: "Re-bind workspace metadata to a new project path",
	Long: `Re-bind a project's workspace metadata after the project folder was
renamed or moved.

The record is staged under a new identity, rewritten to claim the new path,
and committed atomically; the old record is only removed once the new one is
in place. With --copy the old record is kept. With --with-folder the project
folder itself is moved on disk first.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		source := internal.Canonicalize(args[0])
		dest := internal.Canonicalize(args[1])

		if !renameDryRun && internal.HostRunning() {
			fmt.Println(warnStyle.Render("⚠ Cursor appears to be running. Close it before migrating, or the host may rewrite storage mid-flight."))
			if !renameYes && !confirm("Continue anyway?") {
				return &internal.ValidationError{Op: "rename", Reason: "aborted by user"}
			}
		}

		locator := internal.NewLocator(paths)
		rec, err := locator.ResolveOne(source)
		if err != nil {
			return err
		}
		if rec == nil {
			return &internal.ValidationError{Op: "rename", Reason: fmt.Sprintf("no workspace record found for %s", source.Path)}
		}

		if renameWithFolder {
			if renameDryRun {
				fmt.Printf("Would move project folder %s -> %s\n", source.Path, dest.Path)
			} else if err := internal.MoveProjectFolder(source, dest, renameCopy); err != nil {
				return err
			}
		}

		mode := internal.ModeMove
		if renameCopy {
			mode = internal.ModeCopy
		}

		if !renameDryRun && !renameYes {
			prompt := fmt.Sprintf("%s workspace metadata for %s -> %s?", capitalize(mode.String()), source.Path, dest.Path)
			if !confirm(prompt) {
				return &internal.ValidationError{Op: "rename", Reason: "aborted by user"}
			}
		}

		migrator := internal.NewMigrator(paths)
		result, err := migrator.Relocate(internal.MigrationPlan{
			Source: rec,
			Dest:   dest,
			Mode:   mode,
			DryRun: renameDryRun,
		})
		if err != nil {
			return err
		}

		if renameDryRun {
			fmt.Printf("Would %s record %s -> %s (claiming %s)\n", mode, result.SourceID, result.DestID, dest.Path)
			return nil
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s %s -> %s", capitalize(mode.String()), result.SourceID, result.DestID)))
		return nil
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// confirm prompts on stdin and accepts y/yes
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "Show what would change without writing anything")
	renameCmd.Flags().BoolVar(&renameCopy, "copy", false, "Keep the old record instead of removing it")
	renameCmd.Flags().BoolVarP(&renameYes, "yes", "y", false, "Skip confirmation prompts")
	renameCmd.Flags().BoolVar(&renameWithFolder, "with-folder", false, "Also move the project folder itself on disk")
}
