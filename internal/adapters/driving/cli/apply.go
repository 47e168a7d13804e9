package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// editPayload is the wire shape of one edit in an `apply` batch, matching
// editor-style half-open ranges with 0-based lines.
type editPayload struct {
	StartLine    int    `json:"startLine"`
	StartChar    int    `json:"startChar"`
	EndLine      int    `json:"endLine"`
	EndChar      int    `json:"endChar"`
	InsertedText string `json:"insertedText"`
}

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a JSON batch of edits from stdin to a file's markers",
	Long: `Apply consumes one document-change batch as a JSON array of edits on
stdin and updates the file's marker positions incrementally. This is the
integration point for editor plugins that relay their edit events:

  echo '[{"startLine":2,"startChar":0,"endLine":2,"endChar":0,
          "insertedText":"a\nb\n"}]' | linemark apply main.go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}

		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading edit batch: %w", err)
		}

		var payload []editPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("parsing edit batch: %w", err)
		}

		edits := make([]domain.Edit, len(payload))
		for i, p := range payload {
			edits[i] = domain.Edit{
				StartLine:    p.StartLine,
				StartChar:    p.StartChar,
				EndLine:      p.EndLine,
				EndChar:      p.EndChar,
				InsertedText: p.InsertedText,
			}
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := a.tracker.HandleEdits(ctx, path, edits); err != nil {
			return err
		}
		// One-shot invocation: commit the coalesced batch before exit.
		a.tracker.Flush(ctx)

		cmd.Printf("Applied %d edit(s) to markers of %s\n", len(edits), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
