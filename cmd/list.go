package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	listClearCache bool
	listWithID     bool
	listSortBy     string
	listReverse    bool
	listFilter     string
	listLimit      int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace records",
	Long:  `List all workspace records under Cursor's workspaceStorage with their bound project paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheManager := internal.NewCacheManager(filepath.Join(homeDir, ".cursor-workspace-cache"))

		if listClearCache {
			if err := cacheManager.ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			} else {
				internal.LogInfo("Cache cleared")
			}
		}

		var entries []internal.WorkspaceIndexEntry
		valid, err := cacheManager.IsCacheValid(paths.WorkspaceStorage)
		if err == nil && valid {
			internal.LogInfo("Loading from cache...")
			if index, err := cacheManager.LoadIndex(); err == nil && index != nil {
				entries = index.Workspaces
				internal.LogInfo("Loaded %d record(s) from cache", len(entries))
			} else if err != nil {
				internal.LogWarn("Failed to load cache: %v, scanning storage...", err)
			}
		}

		if entries == nil {
			locator := internal.NewLocator(paths)
			entries, err = locator.BuildIndex()
			if err != nil {
				return fmt.Errorf("failed to scan workspace storage: %w", err)
			}
			if err := cacheManager.SaveIndex(paths.WorkspaceStorage, entries); err != nil {
				internal.LogWarn("Failed to save cache: %v", err)
			}
		}

		entries = filterEntries(entries, listFilter)
		sortEntries(entries, listSortBy, listReverse)
		if listLimit > 0 && len(entries) > listLimit {
			entries = entries[:listLimit]
		}

		displayWorkspaces(entries)
		return nil
	},
}

func filterEntries(entries []internal.WorkspaceIndexEntry, filter string) []internal.WorkspaceIndexEntry {
	if filter == "" {
		return entries
	}
	needle := strings.ToLower(filter)
	var out []internal.WorkspaceIndexEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Path), needle) ||
			strings.Contains(strings.ToLower(e.ID), needle) {
			out = append(out, e)
		}
	}
	return out
}

func sortEntries(entries []internal.WorkspaceIndexEntry, by string, reverse bool) {
	switch by {
	case "chats":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].ChatCount > entries[j].ChatCount
		})
	case "modified":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LastModified > entries[j].LastModified
		})
	default: // "path"
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Path < entries[j].Path
		})
	}
	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
}

func displayWorkspaces(entries []internal.WorkspaceIndexEntry) {
	if len(entries) == 0 {
		fmt.Println(headerStyle.Render("📂 No workspace records found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📂 Found %d workspace record(s)", len(entries)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)

	columns := []string{"ID", "Project Path", "Remote", "Chats", "Modified"}
	styled := make([]string, len(columns))
	for i, c := range columns {
		styled[i] = titleStyle.Render(c)
	}
	_, _ = fmt.Fprintln(w, strings.Join(styled, "\t")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, entry := range entries {
		id := entry.ID
		if !listWithID && len(id) > 12 {
			id = id[:12]
		}

		path := entry.Path
		if path == "" {
			path = "(unclaimed)"
		}
		if len(path) > 55 {
			path = "..." + path[len(path)-52:]
		}

		remote := entry.Remote
		if remote == "" {
			remote = "—"
		}

		modified := "—"
		if entry.LastModified != "" {
			if t, err := time.Parse(time.RFC3339, entry.LastModified); err == nil {
				modified = t.Format("2006-01-02 15:04")
			}
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(id),
			pathStyle.Render(path),
			dateStyle.Render(remote),
			countStyle.Render(strconv.Itoa(entry.ChatCount)),
			dateStyle.Render(modified))
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use `cursor-workspace rename <old-path> <new-path>` after moving a project"))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the cache before running")
	listCmd.Flags().BoolVar(&listWithID, "with-id", false, "Show full workspace IDs")
	listCmd.Flags().StringVar(&listSortBy, "sort", "path", "Sort order: path, chats, modified")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse the sort order")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Only show records whose path or ID contains this substring")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Limit the number of records shown (0 = all)")
}
