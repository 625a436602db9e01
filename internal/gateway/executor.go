package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 500 * time.Millisecond
	defaultMaxDelay    = 5 * time.Second
	attemptTimeout     = 10 * time.Second
	jitterCeiling      = 100 * time.Millisecond
)

// Config holds the gateway endpoint and retry policy.
type Config struct {
	BaseURL     string
	ServiceID   string
	BearerToken string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Executor performs outbound gateway actions with retry, capped exponential
// backoff with jitter, and a per-action transaction id the gateway uses for
// idempotency. Notify, subscribe and charge differ only in endpoint and
// payload shape; all three go through Execute.
type Executor struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

type Option func(*Executor)

func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		e.client = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

func NewExecutor(cfg Config, opts ...Option) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaultMaxDelay
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	e := &Executor{
		cfg:    cfg,
		client: &http.Client{Timeout: attemptTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Notify sends a text message to the subscriber.
func (e *Executor) Notify(ctx context.Context, subscriber, message string) (Outcome, error) {
	return e.Execute(ctx, Action{Kind: KindNotify, Subscriber: subscriber, Message: message})
}

// Subscribe registers the subscriber on the given plan.
func (e *Executor) Subscribe(ctx context.Context, subscriber string, plan Plan) (Outcome, error) {
	return e.Execute(ctx, Action{Kind: KindSubscribe, Subscriber: subscriber, Plan: plan})
}

// Charge bills the subscriber for the given plan.
func (e *Executor) Charge(ctx context.Context, subscriber string, plan Plan) (Outcome, error) {
	return e.Execute(ctx, Action{Kind: KindCharge, Subscriber: subscriber, Plan: plan})
}

type gatewayRequest struct {
	ServiceID     string `json:"serviceId"`
	PhoneNumber   string `json:"phoneNumber"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message,omitempty"`
	Plan          Plan   `json:"plan,omitempty"`
}

type gatewayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Execute performs one gateway action, retrying retryable failures until
// success or the attempt budget runs out. All attempts of one action share a
// transaction id so retries stay idempotent on the gateway side. Success
// requires both a 2xx status and an explicit success flag in the response
// body. Backoff sleeps are cancelled by ctx.
func (e *Executor) Execute(ctx context.Context, action Action) (Outcome, error) {
	body, err := json.Marshal(gatewayRequest{
		ServiceID:     e.cfg.ServiceID,
		PhoneNumber:   action.Subscriber,
		TransactionID: newTransactionID(),
		Message:       action.Message,
		Plan:          action.Plan,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("gateway: marshal %s request: %w", action.Kind, err)
	}

	url := e.endpointURL(action.Kind)
	lastMessage := ""

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		outcome, retryable, attemptErr := e.attempt(ctx, url, body)
		if attemptErr == nil {
			outcome.Attempts = attempt
			return outcome, nil
		}
		if !retryable {
			return Outcome{}, attemptErr
		}

		lastMessage = attemptErr.Error()
		e.logger.Warn("gateway attempt failed",
			"kind", string(action.Kind),
			"subscriber", action.Subscriber,
			"attempt", attempt,
			"error", lastMessage,
		)

		if attempt == e.cfg.MaxAttempts {
			break
		}
		if err := sleepOrCancel(ctx, e.delay(attempt)); err != nil {
			return Outcome{}, err
		}
	}

	return Outcome{}, &DeliveryError{
		Attempts:    e.cfg.MaxAttempts,
		LastMessage: lastMessage,
	}
}

// attempt issues one HTTP call. The second return value says whether the
// failure may be retried: network errors, 5xx, 429 and 408 are retryable, as
// is a 2xx response without an explicit success flag; any other 4xx is
// terminal.
func (e *Executor) attempt(ctx context.Context, url string, body []byte) (Outcome, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, false, fmt.Errorf("gateway: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.BearerToken)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return Outcome{}, true, fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Outcome{}, true, fmt.Errorf("gateway: read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var payload gatewayResponse
		if err := json.Unmarshal(raw, &payload); err != nil || !payload.Success {
			return Outcome{}, true, fmt.Errorf("gateway: status %d without success indicator: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return Outcome{Success: true, Body: string(raw)}, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusRequestTimeout:
		return Outcome{}, true, fmt.Errorf("gateway: transient status %d", resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Outcome{}, false, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	default:
		return Outcome{}, true, fmt.Errorf("gateway: status %d", resp.StatusCode)
	}
}

func (e *Executor) endpointURL(kind Kind) string {
	switch kind {
	case KindSubscribe:
		return e.cfg.BaseURL + "/subscriptions"
	case KindCharge:
		return e.cfg.BaseURL + "/charges"
	default:
		return e.cfg.BaseURL + "/notify"
	}
}

// delay computes the backoff before attempt n+1: capped doubling plus up to
// 100ms of jitter so callers retrying in lockstep spread out.
func (e *Executor) delay(attempt int) time.Duration {
	backoff := e.cfg.BaseDelay << (attempt - 1)
	if backoff > e.cfg.MaxDelay || backoff <= 0 {
		backoff = e.cfg.MaxDelay
	}
	return backoff + time.Duration(rand.Int63n(int64(jitterCeiling)))
}

func sleepOrCancel(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const transactionAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newTransactionID builds a correlation token unique within the process
// lifetime: fixed prefix, random alphanumeric suffix, epoch milliseconds.
func newTransactionID() string {
	var builder strings.Builder
	builder.WriteString("TXN")
	for idx := 0; idx < 8; idx++ {
		builder.WriteByte(transactionAlphabet[rand.Intn(len(transactionAlphabet))])
	}
	builder.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	return builder.String()
}
