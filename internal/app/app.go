package app

import (
	"context"
	"log"
	"time"

	"github.com/kyrias/bano/internal/auth"
	"github.com/kyrias/bano/internal/config"
	"github.com/kyrias/bano/internal/metrics"
	"github.com/kyrias/bano/internal/search"
	"github.com/kyrias/bano/internal/store"
	"github.com/kyrias/bano/internal/types"
)

// CredentialManager hands out the run's bearer token
type CredentialManager interface {
	Ensure(ctx context.Context, key, secret, cached string) (auth.Credential, error)
}

// Searcher issues one search request
type Searcher interface {
	Search(ctx context.Context, baseURL string, req search.Request, token string) ([]types.Status, error)
}

// ConfigStore is the read-then-write-back configuration
type ConfigStore interface {
	Load() (config.Config, error)
	Save(cfg config.Config) error
}

// Recorder keeps the run history
type Recorder interface {
	StartRun(ctx context.Context, startedAt time.Time) (string, error)
	RecordOutput(ctx context.Context, runID string, rec store.OutputRecord) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, runErr error) error
}

// StatusCache receives every raw search response
type StatusCache interface {
	SaveStatuses(short, lang string, statuses []types.Status) (string, error)
}

// App runs one pass over all configured outputs. Everything is sequential.
type App struct {
	auth     CredentialManager
	searcher Searcher

	history Recorder
	cache   StatusCache
	metrics *metrics.Metrics
	now     func() time.Time
	dryRun  bool
}

// Option configures an App
type Option func(*App)

// WithHistory records every run in h
func WithHistory(h Recorder) Option {
	return func(a *App) { a.history = h }
}

// WithCache dumps raw search results into c
func WithCache(c StatusCache) Option {
	return func(a *App) { a.cache = c }
}

// WithMetrics counts searches and entries in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithClock replaces time.Now, mostly for reproducible feed timestamps
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithDryRun makes the app fetch and format without writing feeds or config
func WithDryRun(dryRun bool) Option {
	return func(a *App) { a.dryRun = dryRun }
}

// New creates a new App instance.
func New(credentials CredentialManager, searcher Searcher, opts ...Option) *App {
	a := &App{
		auth:     credentials,
		searcher: searcher,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) startRun(ctx context.Context) string {
	if a.history == nil {
		return ""
	}
	id, err := a.history.StartRun(ctx, a.now())
	if err != nil {
		log.Printf("Failed to record run start: %v", err)
		return ""
	}
	return id
}

func (a *App) recordOutput(ctx context.Context, runID string, rec store.OutputRecord) {
	if a.history == nil || runID == "" {
		return
	}
	if err := a.history.RecordOutput(ctx, runID, rec); err != nil {
		log.Printf("Failed to record output %s: %v", rec.Short, err)
	}
}

func (a *App) finishRun(ctx context.Context, runID string, runErr error) {
	if a.history == nil || runID == "" {
		return
	}
	// The run context may already be cancelled; the outcome should still land.
	if err := a.history.FinishRun(context.WithoutCancel(ctx), runID, a.now(), runErr); err != nil {
		log.Printf("Failed to record run result: %v", err)
	}
}
