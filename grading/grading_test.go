package grading

import (
	"testing"

	"quizdeck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipleChoiceQuestion(id uint, points int, correct string, wrong ...string) models.Question {
	q := models.Question{
		ID:     id,
		Text:   "mc question",
		Type:   models.QuestionMultipleChoice,
		Points: points,
	}
	q.Options = append(q.Options, models.Option{ID: 1, QuestionID: id, Text: correct, IsCorrect: true, Order: 1})
	for i, text := range wrong {
		q.Options = append(q.Options, models.Option{ID: uint(i + 2), QuestionID: id, Text: text, Order: i + 2})
	}
	return q
}

func trueFalseQuestion(id uint, points int, correct string) models.Question {
	return models.Question{
		ID:     id,
		Text:   "tf question",
		Type:   models.QuestionTrueFalse,
		Points: points,
		Options: []models.Option{
			{ID: 1, QuestionID: id, Text: "true", IsCorrect: correct == "true", Order: 1},
			{ID: 2, QuestionID: id, Text: "false", IsCorrect: correct == "false", Order: 2},
		},
	}
}

func TestGradeCorrectAnswer(t *testing.T) {
	questions := []models.Question{multipleChoiceQuestion(1, 1, "Paris", "Lyon", "Nice")}

	result := Grade(questions, map[uint]string{1: "Paris"})

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.TotalPoints)
	assert.Equal(t, 100, Percentage(result.Score, result.TotalPoints))
	require.Len(t, result.Answers, 1)
	assert.True(t, result.Answers[0].IsCorrect)
	assert.Equal(t, 1, result.Answers[0].Points)
	assert.Equal(t, "Paris", result.Answers[0].SelectedText)
}

func TestGradeWrongAnswer(t *testing.T) {
	questions := []models.Question{multipleChoiceQuestion(1, 1, "Paris", "Lyon", "Nice")}

	result := Grade(questions, map[uint]string{1: "Lyon"})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 1, result.TotalPoints)
	assert.Equal(t, 0, Percentage(result.Score, result.TotalPoints))
	assert.False(t, result.Answers[0].IsCorrect)
}

func TestGradeIsExactMatch(t *testing.T) {
	questions := []models.Question{multipleChoiceQuestion(1, 3, "Paris", "Lyon")}

	for _, submitted := range []string{"paris", "PARIS", "Paris ", " Paris", "Pari"} {
		result := Grade(questions, map[uint]string{1: submitted})
		assert.Equalf(t, 0, result.Score, "submitted %q should not match", submitted)
		assert.False(t, result.Answers[0].IsCorrect)
	}
}

func TestGradeTrueFalse(t *testing.T) {
	questions := []models.Question{trueFalseQuestion(1, 2, "true")}

	result := Grade(questions, map[uint]string{1: "true"})
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 2, result.TotalPoints)
	assert.Equal(t, 100, Percentage(result.Score, result.TotalPoints))

	// Missing answer grades as an empty submission.
	result = Grade(questions, map[uint]string{})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 2, result.TotalPoints)
	assert.Equal(t, 0, Percentage(result.Score, result.TotalPoints))
	assert.Equal(t, "", result.Answers[0].SelectedText)
}

func TestGradeTrueFalseMatchesTwoOptionMultipleChoice(t *testing.T) {
	tf := trueFalseQuestion(1, 2, "false")
	mc := tf
	mc.Type = models.QuestionMultipleChoice

	for _, submitted := range []string{"true", "false", "", "FALSE"} {
		answers := map[uint]string{1: submitted}
		assert.Equal(t, Grade([]models.Question{mc}, answers), Grade([]models.Question{tf}, answers))
	}
}

func TestGradeShortAnswerNeverScores(t *testing.T) {
	questions := []models.Question{{
		ID:     1,
		Type:   models.QuestionShortAnswer,
		Points: 5,
	}}

	for _, submitted := range []string{"", "anything", "the exact expected answer"} {
		result := Grade(questions, map[uint]string{1: submitted})
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 5, result.TotalPoints)
		assert.False(t, result.Answers[0].IsCorrect)
		assert.Equal(t, 0, result.Answers[0].Points)
		assert.Equal(t, submitted, result.Answers[0].SelectedText)
	}
}

func TestGradeMixedQuiz(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.QuestionShortAnswer, Points: 5},
		multipleChoiceQuestion(2, 5, "Paris", "Lyon"),
	}

	result := Grade(questions, map[uint]string{1: "essay text", 2: "Paris"})

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 10, result.TotalPoints)
	assert.Equal(t, 50, Percentage(result.Score, result.TotalPoints))
}

func TestGradeTotalPointsIndependentOfAnswers(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(1, 2, "a", "b"),
		trueFalseQuestion(2, 3, "true"),
		{ID: 3, Type: models.QuestionShortAnswer, Points: 4},
		multipleChoiceQuestion(4, 0, "x", "y"), // zero-point questions still grade
	}

	answerMaps := []map[uint]string{
		nil,
		{},
		{1: "a", 2: "true", 3: "z", 4: "x"},
		{1: "nope", 99: "stale question id"},
	}
	for _, answers := range answerMaps {
		result := Grade(questions, answers)
		assert.Equal(t, 9, result.TotalPoints)
		assert.Len(t, result.Answers, 4)
	}
}

func TestGradeNoCorrectOptionAlwaysWrong(t *testing.T) {
	questions := []models.Question{
		{
			ID:     1,
			Type:   models.QuestionMultipleChoice,
			Points: 2,
			Options: []models.Option{
				{ID: 1, Text: "a", Order: 1},
				{ID: 2, Text: "b", Order: 2},
			},
		},
		{ID: 2, Type: models.QuestionMultipleChoice, Points: 2}, // zero options
	}

	for _, submitted := range []string{"a", "b", ""} {
		result := Grade(questions, map[uint]string{1: submitted, 2: submitted})
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 4, result.TotalPoints)
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	result := Grade(nil, map[uint]string{1: "Paris"})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.TotalPoints)
	assert.Empty(t, result.Answers)
	assert.Equal(t, 0, Percentage(result.Score, result.TotalPoints))
}

func TestGradeIsPureAndIdempotent(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(1, 1, "Paris", "Lyon", "Nice"),
		trueFalseQuestion(2, 2, "true"),
	}
	answers := map[uint]string{1: "Paris", 2: "false"}

	first := Grade(questions, answers)
	second := Grade(questions, answers)

	assert.Equal(t, first, second)
	// Inputs are untouched.
	assert.Equal(t, "Paris", questions[0].Options[0].Text)
	assert.True(t, questions[0].Options[0].IsCorrect)
	assert.Equal(t, map[uint]string{1: "Paris", 2: "false"}, answers)
}

func TestPercentageRounding(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
		{1, 8, 13}, // 12.5 rounds up
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Percentage(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}
