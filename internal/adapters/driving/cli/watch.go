package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linemark-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/linemark-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch marked files and re-anchor markers as they change",
	Long: `Watch subscribes to filesystem events for every file that has markers
and runs the content-based relocation search whenever one changes on
disk. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watcher, err := watch.NewWatcher(a.tracker, a.docs)
		if err != nil {
			return err
		}
		defer watcher.Close()

		files, err := a.store.ListFiles(ctx)
		if err != nil {
			return fmt.Errorf("listing marked files: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no marked files to watch")
		}

		watched := 0
		for _, file := range files {
			if err := watcher.Watch(file); err != nil {
				logger.Warn("watch: %v", err)
				continue
			}
			watched++
		}
		if watched == 0 {
			return fmt.Errorf("none of the %d marked file(s) could be watched", len(files))
		}

		cmd.Printf("Watching %d file(s). Press Ctrl-C to stop.\n", watched)
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
