// Package grading scores a submitted answer map against a quiz's stored
// answer key. Grading is a pure function: it never touches the store,
// never mutates its inputs, and never fails — a submission always
// produces a score, even when answers are missing or reference stale
// option text.
package grading

import (
	"math"

	"quizdeck/models"
)

// AnswerResult is the graded record for a single question.
type AnswerResult struct {
	QuestionID   uint   `json:"question_id"`
	SelectedText string `json:"selected_text"`
	IsCorrect    bool   `json:"is_correct"`
	Points       int    `json:"points"`
}

// Result is the outcome of grading one submission.
type Result struct {
	Answers     []AnswerResult `json:"answers"`
	Score       int            `json:"score"`
	TotalPoints int            `json:"total_points"`
}

// Grade walks the questions in order and compares each submitted answer
// against the question's correct option by exact string equality — case
// and whitespace sensitive, no normalization. A missing entry in the
// answer map is treated as an empty submission. Short-answer questions
// are never auto-graded and always score zero. A question with no
// correct option (never set, or deleted) is scoreable but always wrong.
func Grade(questions []models.Question, answers map[uint]string) Result {
	result := Result{
		Answers: make([]AnswerResult, 0, len(questions)),
	}

	for _, question := range questions {
		result.TotalPoints += question.Points

		submitted := answers[question.ID]
		isCorrect := false
		points := 0

		switch question.Type {
		case models.QuestionMultipleChoice, models.QuestionTrueFalse:
			if correct := correctOption(question.Options); correct != nil && submitted == correct.Text {
				isCorrect = true
				points = question.Points
				result.Score += points
			}
		}
		// SHORT_ANSWER falls through: manual grading is out of scope.

		result.Answers = append(result.Answers, AnswerResult{
			QuestionID:   question.ID,
			SelectedText: submitted,
			IsCorrect:    isCorrect,
			Points:       points,
		})
	}

	return result
}

// Percentage returns the rounded score percentage, and 0 for a quiz
// with no points at stake rather than dividing by zero.
func Percentage(score, totalPoints int) int {
	if totalPoints <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(totalPoints) * 100))
}

// correctOption returns the first option flagged correct. Authoring
// rejects more than one correct option per single-answer question, so
// "first" is unambiguous for well-formed data.
func correctOption(options []models.Option) *models.Option {
	for i := range options {
		if options[i].IsCorrect {
			return &options[i]
		}
	}
	return nil
}
