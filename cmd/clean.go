package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	cleanDryRun bool
	cleanYes    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove records whose project folder no longer exists",
	Long: `Scan all workspace records and remove the ones bound to a local project
path that no longer exists on disk.

Remote-session records are never removed; the remote filesystem cannot be
checked from here. Without --yes this only lists what would be removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		reaper := internal.NewReaper(paths)
		all, err := reaper.ClassifyAll()
		if err != nil {
			return err
		}

		orphans := internal.Orphans(all)
		if len(orphans) == 0 {
			fmt.Println(headerStyle.Render("✨ No orphaned records found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("🗑  %d orphaned record(s)", len(orphans))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Claimed Path")+"\t"+titleStyle.Render("Size")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))
		var total int64
		for _, c := range orphans {
			path := "(unclaimed)"
			if c.Record.HasClaimedPath() {
				path = c.Record.Claimed.Path
			}
			total += c.Size
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				idStyle.Render(c.Record.ID),
				pathStyle.Render(path),
				countStyle.Render(internal.FormatSize(c.Size)))
		}
		_ = w.Flush()
		fmt.Println()
		fmt.Printf("Total reclaimable: %s\n", internal.FormatSize(total))

		if cleanDryRun {
			return nil
		}
		if !cleanYes && !confirm(fmt.Sprintf("Remove %d record(s)?", len(orphans))) {
			fmt.Println("Nothing removed.")
			return nil
		}

		removed, err := reaper.Reap(orphans, true)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Removed %d record(s), reclaimed %s", removed, internal.FormatSize(total))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "List orphaned records without prompting or removing")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Remove without asking for confirmation")
}
