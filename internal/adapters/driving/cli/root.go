// Package cli implements the cobra command surface of Linemark. Commands
// are thin: they create markers, render results, and drive the tracking
// core through its ports, but contain no tracking logic of their own.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/linemark-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/linemark-cli/internal/adapters/driven/document"
	"github.com/custodia-labs/linemark-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
	"github.com/custodia-labs/linemark-cli/internal/core/services"
	"github.com/custodia-labs/linemark-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "linemark",
	Short: "Line markers that survive edits",
	Long: `Linemark keeps markers pinned to the logical line they were set on,
even as the file is edited above or at the marker. Positions are updated
incrementally from edit events and reconciled by content search when a
file changed outside the tracked session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory for the marker database (default ~/.linemark/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Directory for config.toml (default ~/.linemark)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles the wired collaborators a command needs. Commands acquire
// one, do their work, and close it before returning.
type app struct {
	store   *sqlite.Store
	docs    *document.FileAccessor
	config  domain.TrackingConfig
	tracker *services.Tracker
}

// newApp opens storage and configuration and wires a tracking session.
func newApp() (*app, error) {
	cfgStore, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	err = cfgStore.EnsureDefaults(map[string]any{
		driven.ConfigKeyTrackingEnabled: true,
		driven.ConfigKeyThrottleMs:      int(domain.DefaultThrottleWindow.Milliseconds()),
		driven.ConfigKeyAnchorMaxLength: domain.DefaultAnchorMaxLength,
	})
	if err != nil {
		return nil, fmt.Errorf("seeding config defaults: %w", err)
	}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return nil, fmt.Errorf("opening marker store: %w", err)
	}

	docs := document.NewFileAccessor()
	config := services.TrackingConfigFromStore(cfgStore)

	return &app{
		store:   store,
		docs:    docs,
		config:  config,
		tracker: services.NewTracker(store, docs, config),
	}, nil
}

func (a *app) close() {
	_ = a.tracker.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("closing store: %v", err)
	}
}
