package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/iksnae/cursor-workspace/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat          string
	exportOut             string
	exportSessionID       string
	exportWithThinking    bool
	exportWithTools       bool
	exportWithStats       bool
	exportIncludeArchived bool
	exportExcludeBlank    bool
	exportSplit           bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <path-or-id>",
	Short: "Export a workspace's chat sessions to file",
	Long: `Export the chat sessions of a workspace record to various formats
(jsonl, md, yaml, json).

The target is a project path or a workspace ID; use 'cursor-workspace list'
to see both. Thinking blocks, tool calls, and token stats are omitted unless
requested.`,
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
			return &internal.ValidationError{Op: "export", Reason: fmt.Sprintf("no workspace record found for %s", args[0])}
		}

		reader := internal.NewChatReader(paths)
		sessions, err := reader.ReadSessions(rec, exportIncludeArchived)
		if err != nil {
			return err
		}

		if exportSessionID != "" {
			var match *internal.ChatSession
			for _, s := range sessions {
				if s.ID == exportSessionID {
					match = s
					break
				}
			}
			if match == nil {
				return fmt.Errorf("session not found: %s (use 'cursor-workspace list' to see workspaces)", exportSessionID)
			}
			sessions = []*internal.ChatSession{match}
		}

		if exportExcludeBlank {
			filtered := sessions[:0]
			for _, s := range sessions {
				if len(s.Turns) > 0 {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}

		if len(sessions) == 0 {
			fmt.Println(headerStyle.Render("📭 No chat sessions to export"))
			return nil
		}

		exporter, err := export.NewExporter(exportFormat, export.Options{
			Thinking: exportWithThinking,
			Tools:    exportWithTools,
			Stats:    exportWithStats,
		})
		if err != nil {
			return err
		}

		if !exportSplit {
			for _, session := range sessions {
				if err := exporter.Export(session, os.Stdout); err != nil {
					return fmt.Errorf("failed to export session %s: %w", session.ID, err)
				}
			}
			return nil
		}

		// Ensure output directory exists
		if err := os.MkdirAll(exportOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, session := range sessions {
			filename := fmt.Sprintf("session_%s.%s", session.ID, exporter.Extension())
			outPath := filepath.Join(exportOut, filename)

			file, err := os.Create(outPath)
			if err != nil {
				internal.LogError("Failed to create file %s: %v", outPath, err)
				continue
			}
			if err := exporter.Export(session, file); err != nil {
				_ = file.Close()
				internal.LogError("Failed to export session %s: %v", session.ID, err)
				continue
			}
			if err := file.Close(); err != nil {
				internal.LogWarn("Failed to close file %s: %v", outPath, err)
			}
			exported++
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Exported %d session(s) to %s", exported, exportOut)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&exportSessionID, "session-id", "", "Export a specific session by ID")
	exportCmd.Flags().BoolVar(&exportWithThinking, "with-thinking", false, "Include assistant thinking blocks")
	exportCmd.Flags().BoolVar(&exportWithTools, "with-tools", false, "Include tool call details")
	exportCmd.Flags().BoolVar(&exportWithStats, "with-stats", false, "Include model names and token counts")
	exportCmd.Flags().BoolVar(&exportIncludeArchived, "include-archived", false, "Include archived sessions")
	exportCmd.Flags().BoolVar(&exportExcludeBlank, "exclude-blank", false, "Skip sessions with no turns")
	exportCmd.Flags().BoolVar(&exportSplit, "split", true, "Write one file per session (use --split=false to stream to stdout)")
}
