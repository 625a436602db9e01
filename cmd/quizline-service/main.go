package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"quizline/internal/dispatch"
	"quizline/internal/gateway"
	"quizline/internal/httpapi"
	"quizline/internal/session"
	sessionsqlite "quizline/internal/session/sqlite"
	"quizline/internal/trivia"
)

func main() {
	_ = godotenv.Load()

	defaultAddr := os.Getenv("ADDR")
	if defaultAddr == "" {
		defaultAddr = ":8080"
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gatewayBaseURL := os.Getenv("GATEWAY_BASE_URL")
	if gatewayBaseURL == "" {
		log.Fatal("GATEWAY_BASE_URL is required")
	}

	var (
		store   session.Store
		results session.ResultLog
	)
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "", "memory":
		memory := session.NewMemoryStore()
		store, results = memory, memory
	case "sqlite":
		durable, err := sessionsqlite.NewStore(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Fatalf("open sqlite store: %v", err)
		}
		defer durable.Close()
		store, results = durable, durable
	default:
		log.Fatalf("unknown STORE_BACKEND %q", backend)
	}

	executor := gateway.NewExecutor(gateway.Config{
		BaseURL:     gatewayBaseURL,
		ServiceID:   os.Getenv("GATEWAY_SERVICE_ID"),
		BearerToken: os.Getenv("GATEWAY_BEARER_TOKEN"),
		MaxAttempts: envInt("GATEWAY_MAX_ATTEMPTS", 0),
		BaseDelay:   envDuration("GATEWAY_BASE_DELAY", 0),
		MaxDelay:    envDuration("GATEWAY_MAX_DELAY", 0),
	}, gateway.WithLogger(logger))

	source := trivia.NewSource(trivia.NewClient(nil))
	engine := session.NewEngine(store, results, source, envInt("QUESTION_COUNT", session.DefaultQuestionCount))
	handler := dispatch.NewHandler(engine, executor, logger)

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(handler, engine, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("quizline-service listening", "addr", *addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, value)
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("%s must be a duration like 500ms, got %q", key, value)
	}
	return parsed
}
