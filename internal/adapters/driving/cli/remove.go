package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

var removeCmd = &cobra.Command{
	Use:   "remove <marker-id>",
	Short: "Remove a marker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if _, err := a.store.GetMarker(ctx, args[0]); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("no marker with id %s", args[0])
			}
			return err
		}
		if err := a.store.RemoveMarker(ctx, args[0]); err != nil {
			return fmt.Errorf("removing marker: %w", err)
		}

		cmd.Printf("Removed marker %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
