package httpapi

import (
	"log/slog"
	"net/http"

	"quizline/internal/session"
)

func NewRouter(dispatcher Dispatcher, engine *session.Engine, logger *slog.Logger) http.Handler {
	api := NewAPI(dispatcher, engine, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", api.HandleWebhook)
	mux.HandleFunc("/quiz/start", api.HandleStartQuiz)
	mux.HandleFunc("/healthz", api.HandleHealth)

	return mux
}
