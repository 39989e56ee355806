// Command gamehub-server starts the gamehub HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/gamehub/internal/config"
	pkgcrypto "github.com/and161185/gamehub/internal/crypto"
	"github.com/and161185/gamehub/internal/limiter"
	"github.com/and161185/gamehub/internal/metrics"
	"github.com/and161185/gamehub/internal/migrate"
	"github.com/and161185/gamehub/internal/repository"
	"github.com/and161185/gamehub/internal/repository/filestore"
	"github.com/and161185/gamehub/internal/repository/postgres"
	httpserver "github.com/and161185/gamehub/internal/server/http"
	"github.com/and161185/gamehub/internal/service"
	"github.com/and161185/gamehub/internal/token"
	"github.com/and161185/gamehub/internal/upstream"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// storage bundles the repositories and limiter of one backend.
type storage struct {
	accounts  repository.AccountRepository
	favorites repository.FavoriteRepository
	guides    repository.GuideRepository
	limiter   limiter.Limiter
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	policy := limiter.Policy{
		Window:   cfg.Limiter.Window,
		MaxFails: cfg.Limiter.MaxFails,
		BlockFor: cfg.Limiter.BlockFor,
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := migrate.Up(ctx, cfg.DB.DSN, logger); err != nil {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		return &storage{
			accounts:  postgres.NewAccountRepo(db),
			favorites: postgres.NewFavoriteRepo(db),
			guides:    postgres.NewGuideRepo(db),
			limiter:   limiter.NewPG(db.Pool, policy),
			close:     db.Close,
		}, nil

	default:
		st, err := filestore.Open(cfg.Store.File)
		if err != nil {
			return nil, err
		}
		logger.Info("using file store", zap.String("path", cfg.Store.File))
		return &storage{
			accounts:  filestore.NewAccountRepo(st),
			favorites: filestore.NewFavoriteRepo(st),
			guides:    filestore.NewGuideRepo(st),
			limiter:   limiter.NewMemory(policy),
			close:     func() {},
		}, nil
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// main loads configuration, opens storage, and serves the HTTP API until SIGINT/SIGTERM.
func main() {
	os.Exit(run(os.Args[1:], newLogger))
}

// run returns the process exit code; deferred cleanups run on every path.
func run(args []string, mkLogger func(dev bool) (*zap.Logger, error)) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := mkLogger(cfg.LogDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("store", cfg.Store.Driver),
	)
	if cfg.RAWG.APIKey == "" {
		logger.Warn("RAWG_API_KEY is empty; game catalog calls will be rejected upstream")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("open storage", zap.Error(err))
		return 1
	}
	defer st.close()

	m := metrics.New()
	hasher := pkgcrypto.NewHasher(pkgcrypto.Params{
		Time:    cfg.KDF.Time,
		MemKiB:  cfg.KDF.MemKiB,
		Threads: cfg.KDF.Par,
	})
	issuer := token.NewIssuer([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	catalog := upstream.New(cfg.RAWG.BaseURL, cfg.RAWG.APIKey, cfg.RAWG.Timeout).WithRecorder(m)

	api := httpserver.New(httpserver.Deps{
		Auth:      service.NewAuthService(st.accounts, hasher, issuer, st.limiter),
		Favorites: service.NewFavoritesService(st.favorites),
		Guides:    service.NewGuidesService(st.guides),
		Profiles:  service.NewProfileService(st.accounts, st.guides),
		Tokens:    issuer,
		Catalog:   catalog,
		Metrics:   m,
		Log:       logger,
		CORS:      cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown timed out", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			return 1
		}
	}

	logger.Info("shutdown complete")
	return 0
}
