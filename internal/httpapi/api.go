package httpapi

import (
	"context"
	"log/slog"

	"quizline/internal/session"
)

// Dispatcher is the inbound-message handler the webhook feeds.
type Dispatcher interface {
	Handle(ctx context.Context, subscriber, text string) (string, error)
}

type API struct {
	dispatcher Dispatcher
	engine     *session.Engine
	logger     *slog.Logger
}

func NewAPI(dispatcher Dispatcher, engine *session.Engine, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		dispatcher: dispatcher,
		engine:     engine,
		logger:     logger,
	}
}
