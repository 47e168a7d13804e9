package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/services"
)

var addLabel string

var addCmd = &cobra.Command{
	Use:   "add <file> <line>",
	Short: "Add a marker at a line in a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := strconv.Atoi(args[1])
		if err != nil || line < 1 {
			return fmt.Errorf("line must be a positive number: %q", args[1])
		}

		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		text, err := a.docs.Line(ctx, path, line)
		if err != nil {
			return fmt.Errorf("reading %s:%d: %w", path, line, err)
		}

		m := &domain.Marker{
			ID:               uuid.NewString(),
			FilePath:         path,
			LineNumber:       line,
			ContentAnchor:    services.GenerateAnchor(text, a.config.AnchorMaxLength),
			LastKnownContent: text,
			Label:            addLabel,
			TrackingEnabled:  true,
		}
		if err := a.store.SaveMarker(ctx, m); err != nil {
			return fmt.Errorf("saving marker: %w", err)
		}

		cmd.Printf("Added marker %s at %s:%d\n", m.ID, path, line)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addLabel, "label", "l", "", "Optional note attached to the marker")
	rootCmd.AddCommand(addCmd)
}
