package cmd

import (
	"fmt"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	restoreDryRun bool
	restoreYes    bool
	restoreTarget string
)

var restoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore a workspace record from a backup archive",
	Long: `Install a workspace record from a backup archive, re-binding it to the
project path recorded in the archive or to --target when given.

Restoring refuses to overwrite an existing record for the target path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		manifest, err := internal.ReadManifest(args[0])
		if err != nil {
			return err
		}

		targetPath := manifest.ProjectPath
		if restoreTarget != "" {
			targetPath = restoreTarget
		}
		if targetPath == "" {
			return &internal.ValidationError{Op: "restore", Reason: "archive has no project path; pass --target"}
		}
		target := internal.Canonicalize(targetPath)

		if !restoreDryRun && !restoreYes {
			if !confirm(fmt.Sprintf("Restore workspace %s to %s?", manifest.Identity, target.Path)) {
				return &internal.ValidationError{Op: "restore", Reason: "aborted by user"}
			}
		}

		migrator := internal.NewMigrator(paths)
		result, err := migrator.RestoreBackup(args[0], target, restoreDryRun)
		if err != nil {
			return err
		}

		if restoreDryRun {
			fmt.Printf("Would restore %s as record %s (claiming %s)\n", manifest.Identity, result.DestID, target.Path)
			return nil
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Restored %s as %s", manifest.Identity, result.DestID)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "Show what would change without writing anything")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip confirmation prompts")
	restoreCmd.Flags().StringVar(&restoreTarget, "target", "", "Restore to this project path instead of the one in the archive")
}
