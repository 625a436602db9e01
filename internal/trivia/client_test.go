package trivia

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"quizline/internal/session"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt})
}

func TestFetchQuestionsUsesDefaultAmountWhenNonPositive(t *testing.T) {
	var seenAmount, seenType string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenAmount = r.URL.Query().Get("amount")
		seenType = r.URL.Query().Get("type")
		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"response_code":0,"results":[]}`))),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	questions, err := client.FetchQuestions(context.Background(), 0)
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
	if seenAmount != "10" {
		t.Fatalf("expected default amount 10, got %q", seenAmount)
	}
	if seenType != "multiple" {
		t.Fatalf("expected type=multiple, got %q", seenType)
	}
}

func TestFetchQuestionsPropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		resp := http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	if _, err := client.FetchQuestions(context.Background(), 5); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestFetchQuestionsNonZeroResponseCode(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"response_code":1,"results":[]}`))),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	if _, err := client.FetchQuestions(context.Background(), 3); err == nil {
		t.Fatalf("expected error for non-zero response_code")
	}
}

func TestBuildQuestionsAssignsLettersAndCorrectAnswer(t *testing.T) {
	raw := []RawQuestion{
		{
			Question:         "What is 2 &plus; 2?",
			CorrectAnswer:    "4",
			IncorrectAnswers: []string{"3", "5", "22"},
		},
	}

	questions := BuildQuestions(raw)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	question := questions[0]
	if question.Prompt != "What is 2 + 2?" {
		t.Fatalf("prompt not unescaped: %q", question.Prompt)
	}
	if len(question.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(question.Options))
	}

	found := false
	for idx, option := range question.Options {
		wantLetter := string(rune('A' + idx))
		if option.Letter != wantLetter {
			t.Fatalf("option %d letter = %q, want %q", idx, option.Letter, wantLetter)
		}
		if option.Letter == question.Answer {
			found = true
			if option.Text != "4" {
				t.Fatalf("correct letter %s points at %q, want \"4\"", question.Answer, option.Text)
			}
		}
	}
	if !found {
		t.Fatalf("answer letter %q not present in options", question.Answer)
	}
}

func TestSourceFailsFastOnShortQuestionSet(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		body := `{"response_code":0,"results":[
			{"question":"q1","correct_answer":"a","incorrect_answers":["b","c","d"]},
			{"question":"q2","correct_answer":"a","incorrect_answers":["b","c","d"]}
		]}`
		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	source := NewSource(client)
	if _, err := source.Questions(context.Background(), 10); !errors.Is(err, session.ErrInsufficientQuestions) {
		t.Fatalf("Questions = %v, want ErrInsufficientQuestions", err)
	}
}
