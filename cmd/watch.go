package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rovers/internal/reload"
)

var watchDebounce time.Duration

// watchCmd keeps the pipeline in step with the configuration file
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reapply the logging configuration whenever it changes",
	Long: `Apply the logging configuration and keep watching the file. Every
change is applied once edits settle; a document that fails to load is
reported and the previous configuration stays active.

SIGHUP forces a reload. SIGINT or SIGTERM stops watching.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", reload.DefaultDebounce, "How long to wait for further changes before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	facade, err := newFacade(cmd)
	if err != nil {
		return err
	}
	defer facade.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, dir := resolvePaths()
	watcher := reload.NewWatcher(facade, cfg, dir, watchDebounce)
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return watcher.Stop()
	})
	g.Go(func() error {
		return reloadOnHangup(ctx, watcher)
	})

	err = g.Wait()
	facade.Info("Stopped watching %s", cfg)
	return err
}

// reloadOnHangup reloads the configuration on every SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, watcher *reload.Watcher) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			// Failures are reported by the watcher and must not stop watching.
			_ = watcher.Reload()
		}
	}
}
