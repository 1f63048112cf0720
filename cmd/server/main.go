package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/config"
	"github.com/dayplanhq/dayplan/internal/handlers"
	"github.com/dayplanhq/dayplan/internal/logger"
	"github.com/dayplanhq/dayplan/internal/middleware"
	"github.com/dayplanhq/dayplan/internal/notify"
	"github.com/dayplanhq/dayplan/internal/queue"
	"github.com/dayplanhq/dayplan/internal/services/ai"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/store"
	"github.com/dayplanhq/dayplan/internal/telemetry"
	"github.com/dayplanhq/dayplan/internal/token"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging, including AI request/response bodies")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync(zapLogger)

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing, optional
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.DefaultServiceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Remote store
	remoteStore, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := remoteStore.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Local cache
	localCache, err := cache.NewRedis(cfg.RedisURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := localCache.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Job queue, with retries to ride out broker startup delays
	jobQueue, err := connectQueue(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	// Session stack
	loader := session.NewLoader(remoteStore, zapLogger)
	autosaver := session.NewAutosaver(remoteStore, localCache, zapLogger)
	bootstrapper := session.NewBootstrapper(localCache, loader, autosaver, zapLogger)
	sessions := session.NewManager(bootstrapper, remoteStore, localCache, zapLogger)

	tokens, err := token.NewManager([]byte(cfg.TokenSecret), cfg.TokenTTL)
	if err != nil {
		zapLogger.Fatal("failed_to_initialize_token_manager", zap.Error(err))
	}

	// Plan generation, optional
	var generator ai.PlanGenerator
	if cfg.OpenAIKey != "" {
		generator = ai.NewOpenAIGenerator(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)
	} else {
		zapLogger.Warn("openai_key_not_configured_plan_generation_disabled")
	}

	// Reminder scanning
	subscriptions := notify.NewRedisRegistry(localCache.Client(), zapLogger)
	scanner := notify.NewScanner(sessions, jobQueue, cfg.ReminderScanInterval, zapLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(remoteStore, tokens, sessions, zapLogger)
	taskHandler := handlers.NewTaskHandler(sessions)
	habitHandler := handlers.NewHabitHandler(sessions)
	goalHandler := handlers.NewGoalHandler(sessions)
	noteHandler := handlers.NewNoteHandler(sessions)
	financeHandler := handlers.NewFinanceHandler(sessions)
	profileHandler := handlers.NewProfileHandler(sessions, localCache, bootstrapper, zapLogger)
	planHandler := handlers.NewPlanHandler(sessions, generator, zapLogger)
	subscriptionHandler := handlers.NewSubscriptionHandler(sessions, subscriptions, zapLogger)
	healthChecker := handlers.NewHealthChecker(remoteStore, localCache.Client(), jobQueue)
	openAPIHandler := handlers.NewOpenAPIHandler(filepath.Join("api", "openapi.yaml"))

	rateLimitMW, err := middleware.RateLimit(localCache.Client(), cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	// Router. Middleware executes in registration order in gorilla/mux.
	r := mux.NewRouter()
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(telemetry.DefaultServiceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")
	openAPIHandler.RegisterRoutes(r)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Theme read stays public so the UI can paint before login
	profileHandler.RegisterPublicRoutes(api)

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(rateLimitMW)
	authHandler.RegisterPublicRoutes(authRouter)

	protectedAuth := api.PathPrefix("/auth").Subrouter()
	protectedAuth.Use(middleware.Auth(tokens, zapLogger))
	protectedAuth.Use(rateLimitMW)
	authHandler.RegisterProtectedRoutes(protectedAuth)

	protected := func(prefix string) *mux.Router {
		sub := api.PathPrefix(prefix).Subrouter()
		sub.Use(middleware.Auth(tokens, zapLogger))
		sub.Use(rateLimitMW)
		return sub
	}
	taskHandler.RegisterRoutes(protected("/tasks"))
	habitHandler.RegisterRoutes(protected("/habits"))
	goalHandler.RegisterRoutes(protected("/goals"))
	noteHandler.RegisterRoutes(protected("/notes"))
	financeHandler.RegisterRoutes(protected("/finance"))
	profileHandler.RegisterRoutes(protected("/profile"))
	planHandler.RegisterRoutes(protected("/plan"))
	subscriptionHandler.RegisterRoutes(protected("/subscriptions"))

	// Preflight requests reach here after the CORS middleware set headers
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	go func() {
		if err := scanner.Run(bgCtx); err != nil && err != context.Canceled {
			zapLogger.Error("reminder_scanner_stopped_with_error", zap.Error(err))
		}
	}()
	zapLogger.Info("started_reminder_scanner", zap.Duration("interval", cfg.ReminderScanInterval))

	dlqGC := queue.NewGarbageCollector(jobQueue, 1*time.Hour, 24*time.Hour, zapLogger)
	go func() {
		if err := dlqGC.Start(bgCtx); err != nil && err != context.Canceled {
			zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
		}
	}()

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	bgCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectQueue dials RabbitMQ with exponential backoff. Brokers routinely
// come up after the app in containerized deployments.
func connectQueue(amqpURL string, zapLogger *zap.Logger) (*queue.RabbitMQQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(amqpURL, zapLogger)
		if err == nil {
			return q, nil
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("retry_delay", delay),
			zap.Error(err),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
