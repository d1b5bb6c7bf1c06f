package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/backend"
	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/preview"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/store"
)

// env holds everything a command needs, built once from configuration.
type env struct {
	cfg       config.Config
	log       *zap.Logger
	client    *backend.Client
	store     *store.Store
	summaries store.SummaryRepo
	events    store.EventRepo
	closers   []func() error
}

// newEnv loads configuration, then opens the logger, the local store, the
// optional Redis summary store and the backend client.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{cfg: cfg}
	log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	e.log = log
	e.closers = append(e.closers, closeLog)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)
	e.summaries = st.SummaryRepo()
	e.events = st.EventRepo()

	if cfg.Store == config.StoreRedis {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		rdb, err := store.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.closers = append(e.closers, rdb.Close)
		e.summaries = store.NewRedisSummaryRepo(rdb, "examprep")
	}

	retry := backend.DefaultRetryConfig()
	retry.MaxAttempts = cfg.RetryAttempts
	e.client = backend.New(cfg.APIURL,
		backend.WithToken(cfg.APIToken),
		backend.WithTimeout(cfg.APITimeout),
		backend.WithRetry(retry),
		backend.WithLogger(log.Named("backend")),
	)

	log.Info("environment ready",
		zap.String("api_url", cfg.APIURL),
		zap.String("store", cfg.Store),
		zap.String("db", dbPath))
	return e, nil
}

// resolveDBPath returns the database path using --db / EXAMPREP_DB
// (highest priority), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}

// dispatcher fans completed blocks out to the backend, the local event log
// and, when configured, the AMQP exchange.
func (e *env) dispatcher() *analytics.Dispatcher {
	recorders := []analytics.Recorder{e.client, e.events}
	if e.cfg.AMQPURL != "" {
		pub, err := analytics.DialAMQP(e.cfg.AMQPURL, e.cfg.AMQPExchange)
		if err != nil {
			e.log.Warn("amqp publisher disabled", zap.Error(err))
		} else {
			e.closers = append(e.closers, pub.Close)
			recorders = append(recorders, pub)
		}
	}
	return analytics.NewDispatcher(e.log.Named("analytics"),
		rate.Limit(e.cfg.AnalyticsRate), e.cfg.AnalyticsBurst, recorders...)
}

// deps builds the engine components shared by the screens.
func (e *env) deps() screen.Deps {
	ctrl := practice.NewController(e.client,
		practice.WithSummaryStore(e.summaries),
		practice.WithDispatcher(e.dispatcher()),
		practice.WithLogger(e.log.Named("practice")),
		practice.WithTickInterval(e.cfg.TickInterval),
		practice.WithRequestTimeout(e.cfg.APITimeout*time.Duration(e.cfg.RetryAttempts)),
	)
	lifecycle := assessment.New(e.client,
		assessment.WithAnalytics(e.client),
		assessment.WithLogger(e.log.Named("assessment")),
		assessment.WithTickInterval(e.cfg.TickInterval),
		assessment.WithRequestTimeout(e.cfg.APITimeout*time.Duration(e.cfg.RetryAttempts)),
	)
	return screen.Deps{
		Practice:   ctrl,
		Assessment: lifecycle,
		Preview:    preview.New(e.client, e.log.Named("preview")),
		Filters:    e.client,
		Recent:     e.events,
	}
}

// runApp builds the environment and launches the TUI. initial, if set, is
// shown above the home screen.
func runApp(cmd *cobra.Command, initial func(screen.Deps) screen.Screen) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(app.Options{
		Deps:    e.deps(),
		Log:     e.log,
		Initial: initial,
	})
}
