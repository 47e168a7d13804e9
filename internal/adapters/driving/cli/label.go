package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

var labelCmd = &cobra.Command{
	Use:   "label <marker-id> <text>",
	Short: "Set or clear a marker's label",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		label := args[1]
		err = a.store.UpdateMarker(cmd.Context(), args[0], domain.MarkerUpdate{Label: &label})
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no marker with id %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("updating marker: %w", err)
		}

		cmd.Printf("Labelled marker %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
}
