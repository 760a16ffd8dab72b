package services

import (
	"testing"

	"quizdeck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsForMultipleChoice(t *testing.T) {
	rows, err := optionsForQuestion(models.QuestionMultipleChoice,
		[]string{"Paris", "Lyon", "Nice"}, []string{"Paris"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Paris", rows[0].Text)
	assert.True(t, rows[0].IsCorrect)
	assert.False(t, rows[1].IsCorrect)
	assert.False(t, rows[2].IsCorrect)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Order)
	}
}

func TestOptionsForMultipleChoiceSkipsBlankTexts(t *testing.T) {
	rows, err := optionsForQuestion(models.QuestionMultipleChoice,
		[]string{"Paris", "  ", "", "Lyon"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Paris", rows[0].Text)
	assert.Equal(t, "Lyon", rows[1].Text)
	assert.Equal(t, 1, rows[0].Order)
	assert.Equal(t, 2, rows[1].Order)
}

func TestOptionsForMultipleChoiceZeroCorrectAllowed(t *testing.T) {
	// A question with no correct option is legal; it grades always-wrong.
	rows, err := optionsForQuestion(models.QuestionMultipleChoice,
		[]string{"a", "b"}, nil)
	require.NoError(t, err)
	for _, row := range rows {
		assert.False(t, row.IsCorrect)
	}
}

func TestOptionsForMultipleChoiceRejectsTwoCorrect(t *testing.T) {
	_, err := optionsForQuestion(models.QuestionMultipleChoice,
		[]string{"a", "b", "c"}, []string{"a", "b"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestOptionsForTrueFalseSynthesizesFixedPair(t *testing.T) {
	rows, err := optionsForQuestion(models.QuestionTrueFalse, nil, []string{"true"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "true", rows[0].Text)
	assert.True(t, rows[0].IsCorrect)
	assert.Equal(t, 1, rows[0].Order)

	assert.Equal(t, "false", rows[1].Text)
	assert.False(t, rows[1].IsCorrect)
	assert.Equal(t, 2, rows[1].Order)
}

func TestOptionsForTrueFalseWithoutCorrectAnswer(t *testing.T) {
	rows, err := optionsForQuestion(models.QuestionTrueFalse, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsCorrect)
	assert.False(t, rows[1].IsCorrect)
}

func TestOptionsForTrueFalseRejectsBothCorrect(t *testing.T) {
	_, err := optionsForQuestion(models.QuestionTrueFalse, nil, []string{"true", "false"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestOptionsForShortAnswer(t *testing.T) {
	rows, err := optionsForQuestion(models.QuestionShortAnswer, []string{"ignored"}, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOptionsForUnknownType(t *testing.T) {
	_, err := optionsForQuestion("ESSAY", nil, nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestDefaultPoints(t *testing.T) {
	assert.Equal(t, 1, defaultPoints(0))
	assert.Equal(t, 1, defaultPoints(-3))
	assert.Equal(t, 1, defaultPoints(1))
	assert.Equal(t, 5, defaultPoints(5))
}
