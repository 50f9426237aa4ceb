package app

import (
	"context"
	"fmt"
	"log"
)

// Run performs one complete pass: load the config, make sure a bearer token
// exists, produce every output in config order, then persist the config.
//
// The first error aborts the pass. Outputs not yet processed are skipped, the
// config is not saved, and feeds already written stay on disk.
func (a *App) Run(ctx context.Context, cs ConfigStore) (err error) {
	cfg, err := cs.Load()
	if err != nil {
		return err
	}

	runID := a.startRun(ctx)
	defer func() { a.finishRun(ctx, runID, err) }()

	d := cfg.Defaults
	cred, err := a.auth.Ensure(ctx, d.ConsumerKey, d.ConsumerSecret, d.BearerToken)
	if err != nil {
		return err
	}
	if cred.Minted {
		log.Println("Obtained a new bearer token")
		cfg = cfg.WithBearerToken(cred.BearerToken)
	}

	for _, out := range cfg.Outputs {
		rec, err := a.Produce(ctx, out, cred.BearerToken)
		if err != nil {
			return err
		}
		a.recordOutput(ctx, runID, rec)
	}

	if a.dryRun {
		log.Println("Dry run: config not saved")
		return nil
	}

	if err := cs.Save(cfg); err != nil {
		return fmt.Errorf("failed to persist config: %w", err)
	}

	a.metrics.Success(a.now())
	if cfg.Defaults.MetricsFile != "" {
		if err := a.metrics.WriteFile(cfg.Defaults.MetricsFile); err != nil {
			log.Printf("%v", err)
		}
	}

	return nil
}
