package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finquest-app/finquest/internal/api"
	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/app/engagement"
	"github.com/finquest-app/finquest/internal/app/quiz"
	"github.com/finquest-app/finquest/internal/app/rewards"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/memstore"
	"github.com/finquest-app/finquest/internal/infra/sqlite"
)

// Daemon owns the profile store and the HTTP server built on it.
type Daemon struct {
	cfg      Config
	log      *logrus.Logger
	store    domain.ProfileStore
	accounts *account.Store
	server   *api.Server
}

// New opens storage, loads the quiz bank and assembles the services.
func New(cfg Config, log *logrus.Logger) (*Daemon, error) {
	store, err := OpenStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	source, err := LoadQuiz(cfg.Quiz)
	if err != nil {
		store.Close()
		return nil, err
	}

	ttl, err := cfg.TokenTTL()
	if err != nil {
		store.Close()
		return nil, err
	}
	secret := cfg.Auth.Secret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		log.Warn("auth.secret not set; using a random secret, sessions end on restart")
	}

	engine := rewards.New(cfg.Rewards)
	accounts := account.New(store, engine, log)
	render := engagement.DefaultRenderer()

	server := api.NewServer(accounts, account.NewTokens(secret, ttl), &api.EngagementAPI{
		Goals:     engagement.NewGoalService(accounts, render, log),
		Savings:   engagement.NewSavingsService(accounts, render, log),
		Quiz:      engagement.NewQuizService(accounts, source, render, log),
		Dashboard: engagement.NewDashboardService(accounts, render, cfg.Dashboard.RecentSavings),
		Render:    render,
	}, log)
	if cfg.Metrics.Enabled {
		server.EnableMetrics()
	}

	return &Daemon{
		cfg:      cfg,
		log:      log,
		store:    store,
		accounts: accounts,
		server:   server,
	}, nil
}

// OpenStore opens the configured profile store.
func OpenStore(c StorageConfig) (domain.ProfileStore, error) {
	switch c.Driver {
	case DriverMemory:
		return memstore.New(), nil
	case DriverSQLite:
		db, err := sqlite.Open(c.Dir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}

// LoadQuiz returns the configured question bank.
func LoadQuiz(c QuizConfig) (domain.QuizSource, error) {
	if c.File == "" {
		return quiz.Default(), nil
	}
	return quiz.LoadFile(c.File)
}

// Handler returns the HTTP handler, for tests and embedding.
func (d *Daemon) Handler() http.Handler { return d.server.Handler() }

// Accounts returns the account store.
func (d *Daemon) Accounts() *account.Store { return d.accounts }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully and
// closes the store.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.Close()

	srv := &http.Server{
		Addr:              d.cfg.Addr(),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"storage": d.cfg.Storage.Driver,
			"metrics": d.cfg.Metrics.Enabled,
		}).Info("FinQuest listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	d.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the profile store.
func (d *Daemon) Close() error {
	return d.store.Close()
}
