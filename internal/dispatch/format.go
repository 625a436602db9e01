package dispatch

import (
	"fmt"
	"strings"

	"quizline/internal/session"
)

// FormatStart renders the start reply with the first question.
func FormatStart(started session.StartResult) string {
	return "Quiz started!\n" + formatQuestion(started.Number, started.Question)
}

// FormatAnswer renders the reply for an answer submission: correctness and
// the next question, or the completion summary.
func FormatAnswer(result session.AnswerResult) string {
	if result.Done {
		return fmt.Sprintf("Quiz complete! Your score: %d/%d. Aggregate: %d",
			result.Score, result.Total, result.Aggregate)
	}

	verdict := "Wrong!"
	if result.Correct {
		verdict = "Correct!"
	}
	return verdict + "\n" + formatQuestion(result.Number, result.Question)
}

func formatQuestion(number int, question session.Question) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Q%d: %s", number, question.Prompt)
	for _, option := range question.Options {
		fmt.Fprintf(&builder, "\n%s) %s", option.Letter, option.Text)
	}
	return builder.String()
}
