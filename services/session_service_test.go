package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestSession() *TakingSession {
	return &TakingSession{
		Token:       "tok",
		QuizID:      1,
		UserID:      1,
		Status:      SessionActive,
		QuestionIDs: []uint{10, 11, 12},
		Answers:     map[uint]string{},
		StartedAt:   time.Now(),
	}
}

func TestSessionCursorClampsAtBounds(t *testing.T) {
	session := newTestSession()

	// No wraparound backwards from the first question.
	assert.False(t, session.Retreat())
	assert.Equal(t, 0, session.CurrentIndex)

	assert.True(t, session.Advance())
	assert.True(t, session.Advance())
	assert.Equal(t, 2, session.CurrentIndex)

	// No wraparound forwards from the last question.
	assert.False(t, session.Advance())
	assert.Equal(t, 2, session.CurrentIndex)

	assert.True(t, session.Retreat())
	assert.Equal(t, 1, session.CurrentIndex)
}

func TestSessionCursorOnEmptyQuiz(t *testing.T) {
	session := newTestSession()
	session.QuestionIDs = nil

	assert.False(t, session.Advance())
	assert.False(t, session.Retreat())
	assert.Equal(t, 0, session.CurrentIndex)
}

func TestSessionRecordOverwrites(t *testing.T) {
	session := newTestSession()

	session.Record(10, "Paris")
	session.Record(10, "Lyon")
	session.Record(11, "true")

	assert.Equal(t, map[uint]string{10: "Lyon", 11: "true"}, session.Answers)
}

func TestSessionRecordInitializesAnswerMap(t *testing.T) {
	session := newTestSession()
	session.Answers = nil

	session.Record(10, "Paris")

	assert.Equal(t, "Paris", session.Answers[10])
}

func TestSessionHasQuestion(t *testing.T) {
	session := newTestSession()

	assert.True(t, session.HasQuestion(11))
	assert.False(t, session.HasQuestion(99))
}

func TestSessionTimeLeft(t *testing.T) {
	session := newTestSession()
	now := time.Now()

	// No deadline.
	assert.Equal(t, -1, session.TimeLeft(now))

	deadline := now.Add(90 * time.Second)
	session.ExpiresAt = &deadline
	assert.Equal(t, 90, session.TimeLeft(now))

	// Clamped at zero once the deadline passed.
	assert.Equal(t, 0, session.TimeLeft(deadline.Add(time.Minute)))
}
