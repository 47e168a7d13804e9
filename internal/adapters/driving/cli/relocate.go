package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate <file>",
	Short: "Re-anchor a file's markers by content search",
	Long: `Relocate reconciles marker positions after the file was edited outside
a tracked session. Each marker's stored content anchor is searched for in
a window around its recorded line; exact matches win, close matches are
accepted above a similarity threshold, and everything else is reported as
failed without moving the marker.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		results, err := a.tracker.RelocateFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			cmd.Println("No trackable markers with anchors in that file.")
			return nil
		}

		ids := make([]string, 0, len(results))
		for id := range results {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			r := results[id]
			switch r.Method {
			case domain.RelocationExact:
				cmd.Printf("%s: line %d (exact)\n", id, r.NewLineNumber)
			case domain.RelocationFuzzy:
				cmd.Printf("%s: line %d (fuzzy, %.2f)\n", id, r.NewLineNumber, r.Confidence)
			default:
				cmd.Printf("%s: not found (best score %.2f)\n", id, r.Confidence)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relocateCmd)
}
