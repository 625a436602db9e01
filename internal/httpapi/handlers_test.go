package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quizline/internal/session"
)

type fakeDispatcher struct {
	calls    int
	lastFrom string
	lastText string
	reply    string
	err      error
}

func (f *fakeDispatcher) Handle(_ context.Context, subscriber, text string) (string, error) {
	f.calls++
	f.lastFrom = subscriber
	f.lastText = text
	return f.reply, f.err
}

type fixedSource struct {
	questions []session.Question
}

func (f fixedSource) Questions(context.Context, int) ([]session.Question, error) {
	return f.questions, nil
}

func testQuestions(n int) []session.Question {
	questions := make([]session.Question, 0, n)
	for idx := 0; idx < n; idx++ {
		questions = append(questions, session.Question{
			Prompt: "prompt",
			Options: []session.Option{
				{Letter: "A", Text: "one"},
				{Letter: "B", Text: "two"},
				{Letter: "C", Text: "three"},
				{Letter: "D", Text: "four"},
			},
			Answer: "A",
		})
	}
	return questions
}

func newTestAPI(dispatcher Dispatcher, questionCount, available int) (*API, *session.MemoryStore) {
	store := session.NewMemoryStore()
	engine := session.NewEngine(store, store, fixedSource{questions: testQuestions(available)}, questionCount)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPI(dispatcher, engine, logger), store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestWebhookRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "not-json"},
		{name: "missing from", body: `{"message":"BTD"}`},
		{name: "missing message", body: `{"from":"2547000000"}`},
		{name: "blank from", body: `{"from":"  ","message":"BTD"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			api, _ := newTestAPI(dispatcher, 2, 2)

			recorder := postJSON(t, api.HandleWebhook, "/webhook", tc.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", recorder.Code)
			}
			if dispatcher.calls != 0 {
				t.Fatalf("validation failure must not reach the dispatcher")
			}
		})
	}
}

func TestWebhookDispatchesAndRespondsOK(t *testing.T) {
	dispatcher := &fakeDispatcher{reply: "Quiz started!"}
	api, _ := newTestAPI(dispatcher, 2, 2)

	recorder := postJSON(t, api.HandleWebhook, "/webhook", `{"from":"2547000000","message":"BTD"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var response statusResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Fatalf("status = %q, want \"ok\"", response.Status)
	}

	if dispatcher.calls != 1 || dispatcher.lastFrom != "2547000000" || dispatcher.lastText != "BTD" {
		t.Fatalf("dispatcher saw calls=%d from=%q text=%q", dispatcher.calls, dispatcher.lastFrom, dispatcher.lastText)
	}
}

func TestWebhookStillRespondsOKWhenDispatchFails(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("gateway unreachable")}
	api, _ := newTestAPI(dispatcher, 2, 2)

	recorder := postJSON(t, api.HandleWebhook, "/webhook", `{"from":"2547000000","message":"A"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when dispatch fails", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", recorder.Body.String())
	}
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	api, _ := newTestAPI(&fakeDispatcher{}, 2, 2)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	recorder := httptest.NewRecorder()
	api.HandleWebhook(recorder, req)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}

func TestStartQuizStartsSessionDirectly(t *testing.T) {
	api, store := newTestAPI(&fakeDispatcher{}, 2, 2)

	recorder := postJSON(t, api.HandleStartQuiz, "/quiz/start", `{"phoneNumber":"2547000000"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var response startQuizResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(response.Message, "Quiz started!\nQ1: ") {
		t.Fatalf("message = %q", response.Message)
	}

	if _, err := store.Get(context.Background(), "2547000000"); err != nil {
		t.Fatalf("session not created: %v", err)
	}
}

func TestStartQuizRequiresPhoneNumber(t *testing.T) {
	api, _ := newTestAPI(&fakeDispatcher{}, 2, 2)

	recorder := postJSON(t, api.HandleStartQuiz, "/quiz/start", `{}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestStartQuizReportsInsufficientQuestions(t *testing.T) {
	api, _ := newTestAPI(&fakeDispatcher{}, 10, 3)

	recorder := postJSON(t, api.HandleStartQuiz, "/quiz/start", `{"phoneNumber":"2547000000"}`)
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", recorder.Code)
	}
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(&fakeDispatcher{}, 2, 2)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	api.HandleHealth(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}
