package session

import "time"

// Option is one lettered answer choice of a question.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is a single multiple-choice question as held by a session. The
// option list always has four entries lettered A-D; Answer is the letter of
// the correct one.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
	Answer  string   `json:"answer"`
}

// Session is the live state of one subscriber's in-progress quiz. It exists
// only between Start and completion; its presence in a Store means the quiz
// is active.
//
// Invariant: 0 <= CurrentIndex <= len(Questions), and Completed exactly when
// CurrentIndex == len(Questions).
type Session struct {
	Subscriber     string     `json:"subscriber"`
	Questions      []Question `json:"questions"`
	CurrentIndex   int        `json:"current_index"`
	CurrentScore   int        `json:"current_score"`
	AggregateScore int        `json:"aggregate_score"`
	Completed      bool       `json:"completed"`
}

// Result records one completed quiz.
type Result struct {
	Subscriber  string
	Score       int
	Total       int
	CompletedAt time.Time
}
