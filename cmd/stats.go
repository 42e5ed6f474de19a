package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [path-or-id]",
	Short: "Show storage usage across workspace records",
	Long: `Summarize Cursor's workspace storage: how many records exist, how much
disk they use, how many chat sessions they hold, and how much an orphan
sweep would reclaim.

With a project path or workspace ID, show that record's details instead:
identity hash, folder-id slug, claimed path, chat count, and size.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		if len(args) == 1 {
			return statsForTarget(paths, args[0])
		}

		reaper := internal.NewReaper(paths)
		all, err := reaper.ClassifyAll()
		if err != nil {
			return err
		}

		var totalSize, orphanSize int64
		var orphanCount, remoteCount, chatCount int
		for _, c := range all {
			totalSize += c.Record.Size()
			if c.Status == internal.StatusOrphaned {
				orphanCount++
				orphanSize += c.Size
			}
			if c.Record.HasClaimedPath() && c.Record.Claimed.IsRemote() {
				remoteCount++
			}
			if n, err := internal.CountChatSessions(c.Record.DBPath()); err == nil {
				chatCount += n
			}
		}

		fmt.Println(headerStyle.Render("📊 Workspace storage"))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		row := func(label, value string) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n", titleStyle.Render(label), value)
		}
		row("Storage root", pathStyle.Render(paths.WorkspaceStorage))
		row("Records", countStyle.Render(fmt.Sprintf("%d", len(all))))
		row("Remote records", countStyle.Render(fmt.Sprintf("%d", remoteCount)))
		row("Chat sessions", countStyle.Render(fmt.Sprintf("%d", chatCount)))
		row("Total size", countStyle.Render(internal.FormatSize(totalSize)))
		row("Orphaned", countStyle.Render(fmt.Sprintf("%d (%s)", orphanCount, internal.FormatSize(orphanSize))))
		_ = w.Flush()

		if orphanCount > 0 {
			fmt.Println()
			fmt.Println(idStyle.Render(strings.TrimSpace(
				"💡 Tip: `cursor-workspace clean` removes orphaned records")))
		}
		return nil
	},
}

func statsForTarget(paths internal.StoragePaths, target string) error {
	locator := internal.NewLocator(paths)
	rec, err := locator.ResolveTarget(target)
	if err != nil {
		return err
	}
	if rec == nil {
		return &internal.ValidationError{Op: "stats", Reason: fmt.Sprintf("no workspace record found for %s", target)}
	}

	claimed := "(unclaimed)"
	folderID := "—"
	if rec.HasClaimedPath() {
		claimed = rec.Claimed.Path
		if !rec.Claimed.IsRemote() {
			folderID = internal.PathToFolderID(rec.Claimed.Path)
		}
	}
	chats := 0
	if n, err := internal.CountChatSessions(rec.DBPath()); err == nil {
		chats = n
	}

	fmt.Println(headerStyle.Render("📊 Workspace record"))
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	row := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", titleStyle.Render(label), value)
	}
	row("Workspace ID", idStyle.Render(rec.ID))
	row("Claimed path", pathStyle.Render(claimed))
	row("Folder ID", folderID)
	row("Chat sessions", countStyle.Render(fmt.Sprintf("%d", chats)))
	row("Size", countStyle.Render(internal.FormatSize(rec.Size())))
	_ = w.Flush()
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
