package session

import (
	"context"
	"strings"
	"time"
)

const DefaultQuestionCount = 10

// QuestionSource supplies the ordered question set for a new session.
type QuestionSource interface {
	Questions(ctx context.Context, count int) ([]Question, error)
}

// StartResult is what a subscriber sees right after starting a quiz.
type StartResult struct {
	Question Question
	Number   int
	Total    int
}

// AnswerResult is the outcome of one answer submission. When Done is false,
// Question and Number describe the next question to send; when Done is true,
// Score/Aggregate carry the completion summary.
type AnswerResult struct {
	Done      bool
	Correct   bool
	Question  Question
	Number    int
	Score     int
	Total     int
	Aggregate int
}

// Engine is the per-subscriber quiz state machine: NoSession -> Active ->
// Completed (session removed). All state lives in the injected Store; the
// Engine owns the per-subscriber critical sections around each
// read-modify-write so two concurrent messages from the same subscriber
// cannot produce a lost update.
type Engine struct {
	store         Store
	results       ResultLog
	source        QuestionSource
	questionCount int
	locks         *keyedMutex
}

func NewEngine(store Store, results ResultLog, source QuestionSource, questionCount int) *Engine {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &Engine{
		store:         store,
		results:       results,
		source:        source,
		questionCount: questionCount,
		locks:         newKeyedMutex(),
	}
}

// Start creates a fresh session for the subscriber, unconditionally
// overwriting any session already in progress, and returns the first
// question. The aggregate score starts from zero; completed history is not
// loaded back in.
func (e *Engine) Start(ctx context.Context, subscriber string) (StartResult, error) {
	unlock := e.locks.Lock(subscriber)
	defer unlock()

	questions, err := e.source.Questions(ctx, e.questionCount)
	if err != nil {
		return StartResult{}, err
	}
	if len(questions) < e.questionCount {
		return StartResult{}, ErrInsufficientQuestions
	}
	questions = questions[:e.questionCount]

	s := Session{
		Subscriber: subscriber,
		Questions:  questions,
	}
	if err := e.store.Put(ctx, subscriber, s); err != nil {
		return StartResult{}, err
	}

	return StartResult{
		Question: questions[0],
		Number:   1,
		Total:    e.questionCount,
	}, nil
}

// SubmitAnswer scores rawAnswer against the current question and advances
// the session. A malformed answer counts as incorrect and still advances;
// there is no retry-same-question behavior. On the final question the
// session is completed, folded into the aggregate score, removed from the
// store, and recorded in the result log.
func (e *Engine) SubmitAnswer(ctx context.Context, subscriber, rawAnswer string) (AnswerResult, error) {
	unlock := e.locks.Lock(subscriber)
	defer unlock()

	s, err := e.store.Get(ctx, subscriber)
	if err != nil {
		return AnswerResult{}, err
	}
	if s.Completed || s.CurrentIndex >= len(s.Questions) {
		return AnswerResult{}, ErrNoActiveSession
	}

	current := s.Questions[s.CurrentIndex]
	correct := normalizeAnswer(rawAnswer) == normalizeAnswer(current.Answer)
	if correct {
		s.CurrentScore++
	}
	s.CurrentIndex++

	if s.CurrentIndex == len(s.Questions) {
		s.Completed = true
		s.AggregateScore += s.CurrentScore
		if err := e.store.Delete(ctx, subscriber); err != nil {
			return AnswerResult{}, err
		}
		if e.results != nil {
			if err := e.results.RecordResult(ctx, Result{
				Subscriber:  subscriber,
				Score:       s.CurrentScore,
				Total:       len(s.Questions),
				CompletedAt: time.Now().UTC(),
			}); err != nil {
				return AnswerResult{}, err
			}
		}
		return AnswerResult{
			Done:      true,
			Correct:   correct,
			Score:     s.CurrentScore,
			Total:     len(s.Questions),
			Aggregate: s.AggregateScore,
		}, nil
	}

	if err := e.store.Put(ctx, subscriber, s); err != nil {
		return AnswerResult{}, err
	}

	return AnswerResult{
		Correct:  correct,
		Question: s.Questions[s.CurrentIndex],
		Number:   s.CurrentIndex + 1,
		Score:    s.CurrentScore,
		Total:    len(s.Questions),
	}, nil
}

func normalizeAnswer(answer string) string {
	return strings.ToUpper(strings.TrimSpace(answer))
}
