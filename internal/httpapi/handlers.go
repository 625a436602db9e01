package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"quizline/internal/dispatch"
)

// HandleWebhook receives gateway-forwarded inbound messages. Validation
// failures are the only non-200 responses; once dispatch starts, the gateway
// gets {"status":"ok"} whether the dispatch succeeded or not, so it never
// redelivers a message because our outbound side was failing.
func (a *API) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer r.Body.Close()

	var request webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	from := strings.TrimSpace(request.From)
	if from == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from is required"})
		return
	}
	if strings.TrimSpace(request.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	requestID := uuid.NewString()
	a.logger.Info("webhook received", "request_id", requestID, "from", from)

	if _, err := a.dispatcher.Handle(r.Context(), from, request.Message); err != nil {
		a.logger.Error("dispatch failed", "request_id", requestID, "from", from, "error", err)
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleStartQuiz starts a session directly, bypassing the gateway chain.
// Test/ops use only.
func (a *API) HandleStartQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer r.Body.Close()

	var request startQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	phoneNumber := strings.TrimSpace(request.PhoneNumber)
	if phoneNumber == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "phoneNumber is required"})
		return
	}

	started, err := a.engine.Start(r.Context(), phoneNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, startQuizResponse{
		PhoneNumber: phoneNumber,
		Message:     dispatch.FormatStart(started),
	})
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
