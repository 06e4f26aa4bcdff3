package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	auth "github.com/goliatone/go-admin-auth"
	"github.com/goliatone/go-admin-auth/activitymap"
	"github.com/goliatone/go-admin-auth/config"
	"github.com/goliatone/go-admin-auth/metrics"
	"github.com/goliatone/go-admin-auth/middleware/grpcauth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("admin"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lgr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lgr *glog.BaseLogger) error {
	logger := lgr.GetLogger("main")

	db, err := auth.OpenDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := auth.Migrate(ctx, db, lgr.GetLogger("migrations")); err != nil {
		return err
	}

	tokens, err := auth.NewTokenServiceFromConfig(cfg, lgr.GetLogger("tokens"))
	if err != nil {
		return err
	}

	validator, err := tokenValidator(cfg, tokens, lgr.GetLogger("tokens"))
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := metrics.New(registry)
	if err != nil {
		return err
	}

	activityLogger := lgr.GetLogger("activity")
	sink := auth.MultiActivitySink{
		collector.Sink(),
		activitymap.NewSink(func(_ context.Context, e activitymap.Entry) error {
			activityLogger.Info("activity",
				"verb", e.Verb,
				"outcome", e.Outcome,
				"actor", e.ActorID,
				"account", e.AccountID,
				"role", e.Role,
				"reason", e.Reason,
			)
			return nil
		}),
	}

	service := auth.NewAccountService(
		auth.NewAccountsRepository(db),
		tokens,
		auth.WithLogger(lgr.GetLogger("accounts")),
		auth.WithPasswordHasher(auth.NewBcryptHasher(cfg.GetBcryptCost())),
		auth.WithPhoneRegion(cfg.GetPhoneRegion()),
		auth.WithActivitySink(sink),
	)

	srv := router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			AppName:               "go-admin-auth",
			DisableStartupMessage: true,
		})
	})

	srv.WrappedRouter().Get(cfg.HTTP.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	controller := auth.NewHTTPController(
		auth.WithControllerService(service),
		auth.WithControllerLogger(lgr.GetLogger("http")),
		auth.WithControllerDebug(cfg.Debug),
		auth.WithControllerContextKey(cfg.GetContextKey()),
	)
	auth.RegisterAdminRoutes(srv.Router().Group("/api"), controller, auth.ProtectedRoute(cfg, validator))

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcauth.NewUnaryInterceptor(validator, grpcauth.HealthCheckMethod)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	grpcauth.RegisterSessionServer(grpcServer, grpcauth.NewSessionServer(service))

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to listen for grpc")
	}

	errc := make(chan error, 2)

	go func() {
		logger.Info("http listening", "address", cfg.HTTP.Address)
		errc <- srv.Serve(cfg.HTTP.Address)
	}()

	go func() {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		logger.Info("grpc listening", "address", cfg.GRPC.Address)
		errc <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errc:
		logger.Error("listener failed", "error", err)
	}

	healthServer.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("http shutdown", "error", serr)
	}

	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// tokenValidator accepts tokens signed with the previous key while a
// rotation is in progress.
func tokenValidator(cfg *config.Config, current *auth.TokenService, logger auth.Logger) (auth.TokenValidator, error) {
	previousKey := cfg.GetPreviousSigningKey()
	if previousKey == "" {
		return current.Validator(), nil
	}

	previous, err := auth.NewTokenService([]byte(previousKey),
		auth.WithTokenIssuer(cfg.GetIssuer()),
		auth.WithTokenLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("accepting tokens signed with the previous key")
	return auth.NewMultiTokenValidator(current.Validator(), previous.Validator()), nil
}
