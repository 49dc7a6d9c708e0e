package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	authPostgres "github.com/frahmantamala/simmas/internal/auth/postgres"
	"github.com/frahmantamala/simmas/internal/core/events"
	"github.com/frahmantamala/simmas/internal/dudi"
	dudiPostgres "github.com/frahmantamala/simmas/internal/dudi/postgres"
	"github.com/frahmantamala/simmas/internal/logbook"
	logbookPostgres "github.com/frahmantamala/simmas/internal/logbook/postgres"
	"github.com/frahmantamala/simmas/internal/magang"
	magangPostgres "github.com/frahmantamala/simmas/internal/magang/postgres"
	"github.com/frahmantamala/simmas/internal/scheduler"
	"github.com/frahmantamala/simmas/internal/stats"
	statsPostgres "github.com/frahmantamala/simmas/internal/stats/postgres"
	"github.com/frahmantamala/simmas/internal/transport/middleware"
	"github.com/frahmantamala/simmas/internal/transport/rest"
	"github.com/frahmantamala/simmas/internal/transport/swagger"
	"github.com/frahmantamala/simmas/internal/user"
	userPostgres "github.com/frahmantamala/simmas/internal/user/postgres"
	"github.com/frahmantamala/simmas/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const openAPIPath = "./api/openapi.yml"

// autostartBatch bounds how many due internships one scheduler tick starts.
const autostartBatch = 100

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Dependencies is everything built from config that the server and the
// worker share.
type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	ReadDB   *sqlx.DB
	Registry *prometheus.Registry
	Bus      *events.EventBus
	Profiles *user.Service
	Engine   *magang.Engine
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := chi.NewRouter()
	limiter := middleware.NewRateLimiter(deps.Config.Security.LoginRatePerMinute, deps.Config.Security.LoginBurst)
	if err := limiter.TrustProxies(deps.Config.Server.Proxies()); err != nil {
		lg.Error("invalid trusted proxies", "error", err)
		os.Exit(1)
	}
	go limiter.Run(ctx)

	rest.RegisterAllRoutes(router, buildHandlers(ctx, deps, limiter))

	var pool *scheduler.Pool
	if deps.Config.Lifecycle.SchedulerEnabled {
		pool = newPool(deps)
		sched := scheduler.New("magang-autostart", deps.Config.Lifecycle.SchedulerInterval, autostartTask(deps, pool), lg)
		go sched.Run(ctx)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("starting HTTP server", "address", addr, "env", deps.Config.Env)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		lg.Info("received signal, shutting down")
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("server shutdown error", "error", err)
	}
	if pool != nil {
		pool.Shutdown()
	}
	if err := deps.Bus.Drain(shutdownCtx); err != nil {
		lg.Error("event subscribers did not finish", "error", err)
	}
	if err := closeDB(deps.DB); err != nil {
		lg.Error("database close error", "error", err)
	}

	lg.Info("server stopped")
}

func buildHandlers(ctx context.Context, deps *Dependencies, limiter *middleware.RateLimiter) rest.Handlers {
	cfg := deps.Config
	lg := deps.Logger

	hasher := auth.NewPasswordHasher(cfg.Security.BCryptCost)
	tokens := auth.NewTokenService(cfg.Security.JWTSecret, cfg.Security.SessionTTL)
	cookies := auth.CookieSettings{Secure: cfg.Security.CookieSecure, TTL: cfg.Security.SessionTTL}
	authService := auth.NewService(authPostgres.NewRepository(deps.DB), hasher, tokens, lg)

	logbookService := logbook.NewService(logbookPostgres.NewLogbookRepository(deps.DB), deps.Profiles, deps.Bus, lg)
	dudiService := dudi.NewService(dudiPostgres.NewDudiRepository(deps.DB), lg)
	statsService := stats.NewService(statsPostgres.NewStatsRepository(deps.ReadDB), lg)

	h := rest.Handlers{
		DB:             deps.ReadDB,
		Auth:           auth.NewHandler(authService, cookies, lg),
		AuthMW:         auth.NewMiddleware(auth.NewSessionResolver(tokens), lg),
		User:           user.NewHandler(deps.Profiles, lg),
		Magang:         magang.NewHandler(deps.Engine, lg),
		Logbook:        logbook.NewHandler(logbookService, lg),
		Dudi:           dudi.NewHandler(dudiService, lg),
		Stats:          stats.NewHandler(statsService, lg),
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.Server.Origins(),
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         lg,
	}

	if cfg.Observability.Metrics.Enabled {
		h.Metrics = middleware.NewHTTPMetrics(deps.Registry)
		h.MetricsPath = cfg.Observability.Metrics.Path
	}

	if _, err := swagger.LoadDocument(ctx, openAPIPath); err != nil {
		lg.Warn("api documentation disabled", "error", err)
	} else {
		h.OpenAPIPath = openAPIPath
	}
	return h
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	profiles := user.NewService(userPostgres.NewUserRepository(db), lg)
	engine := magang.NewEngine(magangPostgres.NewMagangRepository(db), profiles, bus, lg,
		magang.WithPolicy(magang.ParsePolicy(config.Lifecycle.EligibilityPolicy)),
		magang.WithMetrics(magang.NewMetrics(registry)),
	)

	return &Dependencies{
		Config:   config,
		DB:       db,
		ReadDB:   sqlx.NewDb(sqlDB, "pgx"),
		Registry: registry,
		Bus:      bus,
		Profiles: profiles,
		Engine:   engine,
		Logger:   lg,
	}, nil
}

func newPool(deps *Dependencies) *scheduler.Pool {
	return scheduler.NewPool(scheduler.Config{
		MaxWorkers:   deps.Config.Lifecycle.MaxWorkers,
		JobQueueSize: deps.Config.Lifecycle.JobQueueSize,
		JobTimeout:   deps.Config.Lifecycle.JobTimeout,
	}, deps.Logger)
}

// autostartTask moves every diterima internship whose start date has come
// to berlangsung.
func autostartTask(deps *Dependencies, pool *scheduler.Pool) scheduler.Task {
	return func(ctx context.Context) error {
		report, err := deps.Engine.StartDue(ctx, pool, autostartBatch)
		if err != nil {
			return err
		}
		if report.Due > 0 {
			deps.Logger.InfoContext(ctx, "autostart run finished",
				"due", report.Due,
				"started", report.Started,
				"failed", report.Failed)
		}
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d internships failed to start", report.Failed, report.Due)
		}
		return nil
	}
}

// initDB opens the GORM handle over the pgx stdlib driver.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Source), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
