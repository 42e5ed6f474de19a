package cmd

import (
	"fmt"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup <path-or-id>",
	Short: "Back up a workspace record to a portable archive",
	Long: `Write a workspace record (settings, chat database, and any per-project
data) to a tar.gz archive that can be restored on another machine.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		locator := internal.NewLocator(paths)
		rec, err := locator.ResolveTarget(args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return &internal.ValidationError{Op: "backup", Reason: fmt.Sprintf("no workspace record found for %s", args[0])}
		}

		out, err := internal.CreateBackup(paths, rec, backupOutput)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Backed up %s to %s (%s)", rec.ID, out, internal.FormatSize(rec.Size()))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Archive path (default: <workspace-id>.tar.gz in the current directory)")
}
