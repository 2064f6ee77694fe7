// Package main is the studentdesk command line: it opens the configured
// store, seeds it with sample data on first start, and prints the dashboard
// and attendance views.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studentdesk/studentdesk/config"
	"github.com/studentdesk/studentdesk/internal/application/command"
	"github.com/studentdesk/studentdesk/internal/application/query"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kvrepo"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/local"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/postgres"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/redis"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/sqlite"
	"github.com/studentdesk/studentdesk/pkg/logger"
	"github.com/studentdesk/studentdesk/pkg/retry"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, closeApp := newRootCmd(nil)
	err := root.ExecuteContext(ctx)
	if closeErr := closeApp(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION WIRING
// ══════════════════════════════════════════════════════════════════════════════

// app holds the wired components for one command invocation.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *kv.Store
	clock timeutil.Clock

	courses    *kvrepo.CourseRepository
	students   *kvrepo.StudentRepository
	attendance *kvrepo.AttendanceRepository
	payments   *kvrepo.PaymentRepository

	queries *query.Service
	marks   *command.MarkAttendanceHandler
	seeder  *command.SeedSampleDataHandler
}

// newApp opens the storage backend and wires repositories and handlers.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	timeutil.SetLocation(cfg.App.Location)

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		store: kv.NewStore(backend, log),
		clock: timeutil.Now,
	}

	opts := kvrepo.Options{Keys: kv.NewKeys(cfg.Storage.KeyPrefix)}
	a.courses = kvrepo.NewCourseRepository(a.store, opts)
	a.attendance = kvrepo.NewAttendanceRepository(a.store, opts)
	a.payments = kvrepo.NewPaymentRepository(a.store, opts)
	a.students = kvrepo.NewStudentRepository(a.store, opts, a.attendance, a.payments)

	a.queries = query.NewService(a.courses, a.students, a.attendance, a.payments, a.clock, log)
	a.marks = command.NewMarkAttendanceHandler(a.attendance, a.clock, log)
	a.seeder = command.NewSeedSampleDataHandler(a.courses, a.students, a.attendance, a.payments, a.clock, nil, log)

	log.Debug("storage opened",
		logger.Backend(backend.Name()),
		logger.String("prefix", opts.Keys.Prefix),
	)
	return a, nil
}

// openBackend opens the configured backend. Network backends are retried
// with backoff so the CLI can start before its database is ready.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (kv.Backend, error) {
	policy := retry.ConnectPolicy(cfg.Storage.ConnectAttempts)
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn("storage not reachable, retrying",
			logger.String("backend", string(cfg.Storage.Backend)),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return kv.NewMemoryBackend(), nil

	case config.BackendRedis:
		rc := redis.Config{
			URL:          cfg.Redis.URL,
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		return retry.DoWithData(ctx, policy, func(ctx context.Context) (kv.Backend, error) {
			if _, err := rc.Options(); err != nil {
				return nil, retry.Permanent(err)
			}
			return redis.NewBackend(ctx, rc)
		})

	case config.BackendPostgres:
		pg := postgres.DefaultConfig()
		pg.URL = cfg.Database.URL
		pg.Table = cfg.Database.Table
		pg.MaxConns = int32(cfg.Database.MaxConns)
		pg.MinConns = int32(cfg.Database.MinConns)
		pg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		pg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
		pg.ConnectTimeout = cfg.Database.ConnectTimeout
		return retry.DoWithData(ctx, policy, func(ctx context.Context) (kv.Backend, error) {
			if _, err := pg.PoolConfig(); err != nil {
				return nil, retry.Permanent(err)
			}
			return postgres.Open(ctx, pg)
		})

	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.Storage.SQLitePath)

	default:
		return local.Open(local.Config{
			Dir:      cfg.Storage.LocalDir,
			InMemory: cfg.Storage.LocalInMemory,
		})
	}
}

// seedIfEnabled runs the seeder when SEED_SAMPLE_DATA is on. Seeding failures
// are logged and do not stop the command.
func (a *app) seedIfEnabled(ctx context.Context) {
	if !a.cfg.Seed.OnStart {
		return
	}
	if _, err := a.seeder.Handle(ctx); err != nil {
		a.log.Warn("sample data seeding failed", logger.Err(err))
	}
}

func (a *app) Close() error {
	return a.store.Close()
}

// newLogger builds the process logger. APP_DEBUG lowers the level to debug
// unless logging is off; callers are recorded in development.
func newLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug && opts.Level != logger.LevelOff {
		opts.Level = logger.LevelDebug
	}
	opts.AddCaller = cfg.IsDevelopment()

	return logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
		logger.String("env", string(cfg.App.Environment)),
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// ROOT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// newRootCmd builds the command tree. A nil cfg is loaded from the
// environment before each command runs. The returned func releases the
// storage opened by the command and must be called after Execute, whether or
// not it failed: cobra skips post-run hooks after an error.
func newRootCmd(cfg *config.Config) (*cobra.Command, func() error) {
	var (
		a           *app
		backendFlag string
		noSeed      bool
	)

	root := &cobra.Command{
		Use:           "studentdesk",
		Short:         "Manage students, courses, attendance and fee installments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfg == nil {
				loaded, err := config.Load()
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if backendFlag != "" {
				backend, err := config.ParseStorageBackend(backendFlag)
				if err != nil {
					return err
				}
				cfg.Storage.Backend = backend
			}
			if noSeed {
				cfg.Seed.OnStart = false
			}

			var err error
			a, err = newApp(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			if cmd.Name() != "seed" {
				a.seedIfEnabled(cmd.Context())
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: memory, local, sqlite, redis or postgres")
	root.PersistentFlags().BoolVar(&noSeed, "no-seed", false, "do not seed sample data into an empty store")

	appFn := func() *app { return a }
	root.AddCommand(
		newSeedCmd(appFn),
		newStatsCmd(appFn),
		newStudentsCmd(appFn),
		newCoursesCmd(appFn),
		newPaymentsCmd(appFn),
		newAttendanceCmd(appFn),
	)

	closeApp := func() error {
		if a == nil {
			return nil
		}
		err := a.Close()
		a = nil
		return err
	}
	return root, closeApp
}
