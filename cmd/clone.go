package cmd

import (
	"fmt"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	cloneDryRun bool
	cloneYes    bool
)

var cloneCmd = &cobra.Command{
	Use:   "clone <source-path> [dest-path]",
	Short: "Clone workspace metadata to a second working copy",
	Long: `Copy a project's workspace metadata to a new path so a second checkout
gets its own settings and chat history.

Chat session identities in the clone are remapped to fresh UUIDs so the two
copies never cross-reference each other. When dest-path is omitted, the
source path with a "-copy" suffix is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		source := internal.Canonicalize(args[0])
		var dest internal.ProjectPath
		if len(args) == 2 {
			dest = internal.Canonicalize(args[1])
		} else {
			dest = internal.CloneDestination(source)
		}

		locator := internal.NewLocator(paths)
		rec, err := locator.ResolveOne(source)
		if err != nil {
			return err
		}
		if rec == nil {
			return &internal.ValidationError{Op: "clone", Reason: fmt.Sprintf("no workspace record found for %s", source.Path)}
		}

		if !cloneDryRun && !cloneYes {
			if !confirm(fmt.Sprintf("Clone workspace metadata for %s -> %s?", source.Path, dest.Path)) {
				return &internal.ValidationError{Op: "clone", Reason: "aborted by user"}
			}
		}

		migrator := internal.NewMigrator(paths)
		result, err := migrator.Clone(rec, dest, cloneDryRun)
		if err != nil {
			return err
		}

		if cloneDryRun {
			fmt.Printf("Would clone record %s -> %s (claiming %s)\n", result.SourceID, result.DestID, dest.Path)
			return nil
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Cloned %s -> %s", result.SourceID, result.DestID)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().BoolVar(&cloneDryRun, "dry-run", false, "Show what would change without writing anything")
	cloneCmd.Flags().BoolVarP(&cloneYes, "yes", "y", false, "Skip confirmation prompts")
}
