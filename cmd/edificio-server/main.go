package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/hvigueras/edificio-admin/config"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
	"github.com/hvigueras/edificio-admin/internal/core/repository"
	logicv1 "github.com/hvigueras/edificio-admin/internal/logic/v1"
	v1 "github.com/hvigueras/edificio-admin/internal/web/v1"
	"github.com/hvigueras/edificio-admin/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	middleware.SetupLogging(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Msg("Service starting")

	var tp interface{ Shutdown(context.Context) error }
	var err error
	if cfg.Tracing.Enabled {
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	db, err := repository.Open(cfg.Datos.Archivo)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", cfg.Datos.Archivo).Msg("Failed to open data file")
	}
	log.Info().Str("archivo", cfg.Datos.Archivo).Msg("Data file opened")

	usuarioRepo := repository.NewUsuarioRepo(db)
	sesionRepo := repository.NewSesionRepo()
	cuotaRepo := repository.NewCuotaRepo(db)
	gastoRepo := repository.NewGastoRepo(db)
	fondoRepo := repository.NewFondoRepo(db)
	anuncioRepo := repository.NewAnuncioRepo(db)
	cierreRepo := repository.NewCierreRepo(db)
	parcialidadRepo := repository.NewParcialidadRepo(db)

	authService := logicv1.NewAuthService(usuarioRepo, sesionRepo)
	usuariosService := logicv1.NewUsuariosService(usuarioRepo)
	finanzasService := logicv1.NewFinanzasService(usuarioRepo, cuotaRepo, gastoRepo, fondoRepo, cierreRepo, parcialidadRepo, anuncioRepo)
	anunciosService := logicv1.NewAnunciosService(anuncioRepo)

	if err := seed(authService, fondoRepo, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed initial data")
	}

	r := gin.Default()

	var isShuttingDown atomic.Bool

	r.Use(middleware.TracingMiddleware(cfg.Service.Name))
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := v1.NewHandler(authService, usuariosService, finanzasService, anunciosService)
	handler.RegisterRoutes(r.Group("/api"))

	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting edificio server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for propagation before closing the listener.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}

// seed creates the primary administrator and the default funds on first run.
func seed(auth *logicv1.AuthService, fondos *repository.FondoRepo, cfg *config.Config) error {
	ctx := context.Background()

	if cfg.Admin.Password != "" {
		if err := auth.CrearAdminInicial(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	return fondos.Seed(ctx, []domain.Fondo{
		{Nombre: "Fondo de operacion"},
		{Nombre: "Fondo de reserva"},
		{Nombre: "Fondo de gastos mayores"},
	})
}
