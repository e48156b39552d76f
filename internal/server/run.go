// Package server bootstraps the focusgate HTTP service.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/focusgate/focusgate/internal/api"
	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/decision"
	"github.com/focusgate/focusgate/internal/events"
	"github.com/focusgate/focusgate/internal/factory"
	"github.com/focusgate/focusgate/internal/feedback"
	"github.com/focusgate/focusgate/internal/health"
	"github.com/focusgate/focusgate/internal/logger"
	"github.com/focusgate/focusgate/internal/scoring"
	"github.com/focusgate/focusgate/internal/services"
	"github.com/focusgate/focusgate/internal/store"
	"github.com/focusgate/focusgate/internal/values"
)

// Run starts the focusgate HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("focusgate")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	engine, err := config.LoadEngine(cfg.EngineConfigPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load engine configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("learning_enabled", cfg.LearningEnabled).
		Bool("intervention_enabled", cfg.InterventionEnabled).
		Msg("focusgate starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	// Event bus drained into the store by a background recorder.
	bus := events.NewBus(cfg.EventBufferSize)
	recorder := events.NewRecorder(bus, st.Events(), log)
	recorder.Start(ctx)

	router := buildRouter(st, bus, cfg, engine)

	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter constructs the pipeline components and wires HTTP routes.
func buildRouter(st store.Store, sink events.Sink, cfg *config.Config, engine *config.Engine) http.Handler {
	scorer := scoring.NewScorer(engine)
	decider := decision.NewEngine(engine)
	estimator := values.NewEstimator(engine)
	processor := feedback.NewProcessor(engine)

	profiles := services.NewProfileService(st, estimator, engine, sink)
	eval := services.NewEvaluationService(st, profiles, scorer, decider, sink, cfg.InterventionEnabled)
	rules := services.NewRuleService(st, decider.Rules(), sink)
	fb := services.NewFeedbackService(st, profiles, processor, sink, cfg.LearningEnabled)

	return api.NewRouter(api.Deps{
		Profiles:            profiles,
		Eval:                eval,
		Rules:               rules,
		Feedback:            fb,
		Events:              st.Events(),
		DefaultUser:         cfg.DefaultUserID,
		LearningEnabled:     cfg.LearningEnabled,
		InterventionEnabled: cfg.InterventionEnabled,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// startupHealthTimeout is interval*2 with a minimum of 60 seconds, giving the
// checkers time to complete their first probe cycle.
func startupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := startupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
