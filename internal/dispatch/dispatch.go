package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"quizline/internal/gateway"
	"quizline/internal/session"
)

// Deliverer is the slice of the gateway executor the dispatcher needs.
type Deliverer interface {
	Notify(ctx context.Context, subscriber, message string) (gateway.Outcome, error)
	Subscribe(ctx context.Context, subscriber string, plan gateway.Plan) (gateway.Outcome, error)
	Charge(ctx context.Context, subscriber string, plan gateway.Plan) (gateway.Outcome, error)
}

type startCommand struct {
	welcome string
	plan    gateway.Plan
}

// Start keywords and the welcome/plan they map to. An empty plan means no
// subscription or billing is attached to that keyword.
var startCommands = map[string]startCommand{
	"BTD":  {welcome: "Welcome to the daily trivia quiz!", plan: gateway.PlanDaily},
	"BTW":  {welcome: "Welcome to the weekly trivia quiz!", plan: gateway.PlanWeekly},
	"BTM":  {welcome: "Welcome to the monthly trivia quiz!", plan: gateway.PlanMonthly},
	"PLAY": {welcome: "Welcome! Your quiz is on the way."},
}

// Handler routes inbound subscriber messages: a start keyword runs the
// notify/subscribe/charge chain and starts a quiz, anything else is treated
// as an answer to the current question. The composed reply is always sent
// back through one final notify call.
type Handler struct {
	engine    *session.Engine
	deliverer Deliverer
	logger    *slog.Logger
}

func NewHandler(engine *session.Engine, deliverer Deliverer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		engine:    engine,
		deliverer: deliverer,
		logger:    logger,
	}
}

// Handle processes one inbound message and returns the reply text that was
// sent. A delivery failure anywhere in the chain aborts the dispatch before
// the subscriber gets a reply; the error carries what went wrong.
func (h *Handler) Handle(ctx context.Context, subscriber, text string) (string, error) {
	var (
		reply string
		err   error
	)

	keyword := strings.ToUpper(strings.TrimSpace(text))
	if cmd, ok := startCommands[keyword]; ok {
		reply, err = h.startQuiz(ctx, subscriber, cmd)
	} else {
		reply, err = h.answer(ctx, subscriber, text)
	}
	if err != nil {
		return "", err
	}

	if _, err := h.deliverer.Notify(ctx, subscriber, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// startQuiz runs the outbound chain strictly in order: the welcome must be
// acknowledged before the gateway registers or bills anything. A repeated
// start keyword re-runs the whole chain and overwrites the active session.
func (h *Handler) startQuiz(ctx context.Context, subscriber string, cmd startCommand) (string, error) {
	if _, err := h.deliverer.Notify(ctx, subscriber, cmd.welcome); err != nil {
		return "", err
	}
	if cmd.plan != "" {
		if _, err := h.deliverer.Subscribe(ctx, subscriber, cmd.plan); err != nil {
			return "", err
		}
		if _, err := h.deliverer.Charge(ctx, subscriber, cmd.plan); err != nil {
			return "", err
		}
	}

	started, err := h.engine.Start(ctx, subscriber)
	if err != nil {
		return "", err
	}

	h.logger.Info("quiz started", "subscriber", subscriber, "plan", string(cmd.plan))
	return FormatStart(started), nil
}

func (h *Handler) answer(ctx context.Context, subscriber, text string) (string, error) {
	result, err := h.engine.SubmitAnswer(ctx, subscriber, text)
	if err != nil {
		// A missing session is a normal outcome here; the subscriber gets
		// the engine's message as the reply.
		if errors.Is(err, session.ErrNoActiveSession) {
			return err.Error(), nil
		}
		return "", err
	}

	if result.Done {
		h.logger.Info("quiz completed", "subscriber", subscriber, "score", result.Score, "total", result.Total)
	}
	return FormatAnswer(result), nil
}
