package cmd

import (
	"context"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/kyrias/bano/internal/app"
	"github.com/kyrias/bano/internal/auth"
	"github.com/kyrias/bano/internal/config"
	"github.com/kyrias/bano/internal/metrics"
	"github.com/kyrias/bano/internal/search"
	"github.com/kyrias/bano/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch every configured output once and write the feeds",
	Long: `Run performs one pass over all outputs in config order.

Any failure (token exchange, a search, writing a feed) stops the pass
immediately with a non-zero exit status. Feeds written before the failure are
left in place and the config file is not rewritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd.Context(), dryRun)
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and format without writing feeds or config")
	rootCmd.AddCommand(runCmd)
}

// runPass opens the config, assembles an App from it and runs one pass
func runPass(ctx context.Context, dry bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cs, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := cs.Load()
	if err != nil {
		return err
	}

	a, closer, err := buildApp(cfg, dry)
	if err != nil {
		return err
	}
	defer closer.Close()

	return a.Run(ctx, cs)
}

// buildApp wires the optional history, cache and metrics the config asks for
func buildApp(cfg config.Config, dry bool) (*app.App, io.Closer, error) {
	opts := []app.Option{app.WithDryRun(dry)}
	var closer io.Closer = nopCloser{}

	d := cfg.Defaults
	if d.HistoryDB != "" {
		h, err := store.Open(d.HistoryDB)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, app.WithHistory(h))
		closer = h
	}
	if d.CacheDir != "" {
		opts = append(opts, app.WithCache(store.NewCache(d.CacheDir)))
	}

	var m *metrics.Metrics
	if d.MetricsFile != "" {
		m = metrics.New()
		opts = append(opts, app.WithMetrics(m))
	}

	manager := auth.NewManager(d.TokenURL, nil)
	manager.OnExchange = m.TokenExchange

	log.Printf("Loaded %d output(s) from %s", len(cfg.Outputs), cfgFile)
	return app.New(manager, search.New(nil, verbose), opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
