package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSession is returned when a subscriber has no quiz in
	// progress. Its text is user-facing: the dispatcher sends it verbatim.
	ErrNoActiveSession = errors.New("no active quiz, send a start keyword to begin")

	// ErrInsufficientQuestions means the question source returned fewer
	// questions than a full quiz needs.
	ErrInsufficientQuestions = errors.New("insufficient questions for a full quiz")
)

// StoreError wraps a session-store backend fault so callers can tell store
// failures apart from gateway or provider failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("session store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
