package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze <marker-id>",
	Short: "Stop tracking a marker's position",
	Long: `Freeze pins a marker to its current line: the tracking core will no
longer move it on edits or relocate it by content. Use unfreeze to resume.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTracking(cmd, args[0], false)
	},
}

var unfreezeCmd = &cobra.Command{
	Use:   "unfreeze <marker-id>",
	Short: "Resume tracking a marker's position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTracking(cmd, args[0], true)
	},
}

func setTracking(cmd *cobra.Command, id string, enabled bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	err = a.store.UpdateMarker(cmd.Context(), id, domain.MarkerUpdate{TrackingEnabled: &enabled})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no marker with id %s", id)
	}
	if err != nil {
		return fmt.Errorf("updating marker: %w", err)
	}

	if enabled {
		cmd.Printf("Marker %s is tracking again\n", id)
	} else {
		cmd.Printf("Marker %s is frozen\n", id)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(freezeCmd)
	rootCmd.AddCommand(unfreezeCmd)
}
