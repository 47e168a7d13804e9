package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List markers, optionally limited to one file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()

		var files []string
		if len(args) == 1 {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}
			files = []string{path}
		} else {
			files, err = a.store.ListFiles(ctx)
			if err != nil {
				return fmt.Errorf("listing files: %w", err)
			}
		}

		total := 0
		for _, file := range files {
			markers, err := a.store.GetMarkersForFile(ctx, file)
			if err != nil {
				return fmt.Errorf("loading markers for %s: %w", file, err)
			}
			for _, m := range markers {
				cmd.Println(formatMarker(m))
				total++
			}
		}

		if total == 0 {
			cmd.Println("No markers found.")
		}
		return nil
	},
}

func formatMarker(m domain.Marker) string {
	state := ""
	if !m.TrackingEnabled {
		state = " [frozen]"
	}
	label := ""
	if m.Label != "" {
		label = "  " + m.Label
	}
	return fmt.Sprintf("%s  %s:%d%s%s", m.ID, m.FilePath, m.LineNumber, state, label)
}

func init() {
	rootCmd.AddCommand(listCmd)
}
