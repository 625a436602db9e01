package trivia

import (
	"context"
	"html"
	"math/rand"

	"quizline/internal/session"
)

// Source adapts the OpenTDB client to the engine's question contract. It
// fails fast when the provider returns fewer questions than requested so a
// short quiz is never started silently.
type Source struct {
	client *Client
}

func NewSource(client *Client) *Source {
	return &Source{client: client}
}

func (s *Source) Questions(ctx context.Context, count int) ([]session.Question, error) {
	raw, err := s.client.FetchQuestions(ctx, count)
	if err != nil {
		return nil, err
	}

	questions := BuildQuestions(raw)
	if len(questions) < count {
		return nil, session.ErrInsufficientQuestions
	}
	return questions, nil
}

// BuildQuestions turns raw provider questions into lettered four-option
// questions with the correct letter recorded. Answer options are shuffled so
// the correct one is not always in the same position.
func BuildQuestions(raw []RawQuestion) []session.Question {
	questions := make([]session.Question, 0, len(raw))
	for _, item := range raw {
		questions = append(questions, buildQuestion(item))
	}
	return questions
}

func buildQuestion(raw RawQuestion) session.Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{text: html.UnescapeString(incorrect)})
	}
	choices = append(choices, choice{
		text:      html.UnescapeString(raw.CorrectAnswer),
		isCorrect: true,
	})

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]session.Option, len(choices))
	answer := ""

	for idx, candidate := range choices {
		letter := string(rune('A' + idx))
		options[idx] = session.Option{
			Letter: letter,
			Text:   candidate.text,
		}
		if candidate.isCorrect {
			answer = letter
		}
	}

	return session.Question{
		Prompt:  html.UnescapeString(raw.Question),
		Options: options,
		Answer:  answer,
	}
}
