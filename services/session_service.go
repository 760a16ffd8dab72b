package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"quizdeck/models"

	"github.com/redis/go-redis/v9"
)

// Session states. A session is created Ready against a published quiz
// and becomes Completed on its first (and only) successful submit.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

const sessionTTL = 2 * time.Hour

// TakingSession is the transient state of one taker working through a
// quiz: a cursor over the question sequence and the answers collected
// so far. It lives in Redis as JSON until the TTL reaps it.
type TakingSession struct {
	Token        string          `json:"token"`
	QuizID       uint            `json:"quiz_id"`
	UserID       uint            `json:"user_id"`
	Status       string          `json:"status"`
	CurrentIndex int             `json:"current_index"`
	QuestionIDs  []uint          `json:"question_ids"`
	Answers      map[uint]string `json:"answers"`
	StartedAt    time.Time       `json:"started_at"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	Result       *SubmitResult   `json:"result,omitempty"`
}

// Advance moves the cursor forward, clamped to the last question.
func (s *TakingSession) Advance() bool {
	if s.CurrentIndex < len(s.QuestionIDs)-1 {
		s.CurrentIndex++
		return true
	}
	return false
}

// Retreat moves the cursor back, clamped to the first question.
func (s *TakingSession) Retreat() bool {
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
		return true
	}
	return false
}

// Record stores (or overwrites) the answer for a question.
func (s *TakingSession) Record(questionID uint, text string) {
	if s.Answers == nil {
		s.Answers = make(map[uint]string)
	}
	s.Answers[questionID] = text
}

// HasQuestion reports whether the question belongs to this session.
func (s *TakingSession) HasQuestion(questionID uint) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// TimeLeft returns the remaining seconds, clamped at zero, or -1 when
// the session has no deadline.
func (s *TakingSession) TimeLeft(now time.Time) int {
	if s.ExpiresAt == nil {
		return -1
	}
	left := int(s.ExpiresAt.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// SessionOption is an option as shown to the taker. IsCorrect is
// intentionally omitted while the session is live.
type SessionOption struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type SessionQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Type    string          `json:"type"`
	Points  int             `json:"points"`
	Order   int             `json:"order"`
	Options []SessionOption `json:"options"`
}

// SessionView is the taker-facing snapshot of a session.
type SessionView struct {
	Token          string           `json:"token"`
	QuizID         uint             `json:"quiz_id"`
	QuizTitle      string           `json:"quiz_title"`
	Status         string           `json:"status"`
	CurrentIndex   int              `json:"current_index"`
	TotalQuestions int              `json:"total_questions"`
	Question       *SessionQuestion `json:"question,omitempty"`
	Answers        map[uint]string  `json:"answers"`
	TimeLeft       *int             `json:"time_left,omitempty"` // seconds
	Result         *SubmitResult    `json:"result,omitempty"`
}

type SessionService struct {
	quizzes  *QuizService
	attempts *AttemptService
	redis    *redis.Client

	// finalizeMu serializes session completion so that a timer expiry
	// racing a manual submit can never record two attempts.
	finalizeMu sync.Mutex
	timersMu   sync.Mutex
	timers     map[string]*time.Timer
}

func NewSessionService(quizzes *QuizService, attempts *AttemptService, redisClient *redis.Client) *SessionService {
	return &SessionService{
		quizzes:  quizzes,
		attempts: attempts,
		redis:    redisClient,
		timers:   make(map[string]*time.Timer),
	}
}

// Start opens a taking session against a published quiz. A quiz time
// limit arms a single-shot timer that auto-submits the session exactly
// once when it fires.
func (s *SessionService) Start(quizID uint, userID uint, hub *Hub) (*SessionView, error) {
	quiz, err := s.quizzes.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, &ValidationError{Message: "quiz is not published"}
	}

	questionIDs := make([]uint, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		questionIDs = append(questionIDs, question.ID)
	}

	now := time.Now()
	session := &TakingSession{
		Token:       generateSessionToken(),
		QuizID:      quiz.ID,
		UserID:      userID,
		Status:      SessionActive,
		QuestionIDs: questionIDs,
		Answers:     make(map[uint]string),
		StartedAt:   now,
	}

	if quiz.TimeLimit > 0 {
		deadline := now.Add(time.Duration(quiz.TimeLimit) * time.Minute)
		session.ExpiresAt = &deadline
	}

	if err := s.storeSession(session); err != nil {
		return nil, err
	}

	if session.ExpiresAt != nil {
		token := session.Token
		timer := time.AfterFunc(time.Until(*session.ExpiresAt), func() {
			if _, err := s.expire(token, hub); err != nil {
				log.Printf("Auto-submit for session %s skipped: %v", token, err)
			}
		})
		s.timersMu.Lock()
		s.timers[token] = timer
		s.timersMu.Unlock()
	}

	log.Printf("Session %s started for quiz %d (time limit %d min)", session.Token, quiz.ID, quiz.TimeLimit)
	return s.view(session, quiz), nil
}

// View returns the current taker-facing state of a session.
func (s *SessionService) View(token string) (*SessionView, error) {
	session, err := s.loadSession(token)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuizByID(session.QuizID)
	if err != nil {
		return nil, err
	}
	return s.view(session, quiz), nil
}

// Next moves the cursor forward; clamped, no wraparound.
func (s *SessionService) Next(token string) (*SessionView, error) {
	return s.move(token, (*TakingSession).Advance)
}

// Previous moves the cursor back; clamped, no wraparound.
func (s *SessionService) Previous(token string) (*SessionView, error) {
	return s.move(token, (*TakingSession).Retreat)
}

func (s *SessionService) move(token string, step func(*TakingSession) bool) (*SessionView, error) {
	session, err := s.loadSession(token)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionActive {
		return nil, &ValidationError{Message: "session already completed"}
	}

	if step(session) {
		if err := s.storeSession(session); err != nil {
			return nil, err
		}
	}

	quiz, err := s.quizzes.GetQuizByID(session.QuizID)
	if err != nil {
		return nil, err
	}
	return s.view(session, quiz), nil
}

// RecordAnswer stores the taker's answer for one question, overwriting
// any earlier answer to the same question.
func (s *SessionService) RecordAnswer(token string, questionID uint, text string) (*SessionView, error) {
	session, err := s.loadSession(token)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionActive {
		return nil, &ValidationError{Message: "session already completed"}
	}
	if !session.HasQuestion(questionID) {
		return nil, &NotFoundError{Resource: "question"}
	}

	session.Record(questionID, text)
	if err := s.storeSession(session); err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.GetQuizByID(session.QuizID)
	if err != nil {
		return nil, err
	}
	return s.view(session, quiz), nil
}

// Submit finalizes the session: grades the collected answers, records
// the attempt, and pushes a session_completed event. A session can be
// submitted once; later calls fail.
func (s *SessionService) Submit(token string, hub *Hub) (*SubmitResult, error) {
	return s.finalize(token, hub, "session_completed")
}

// expire is the timer path: same finalize flow, different event.
func (s *SessionService) expire(token string, hub *Hub) (*SubmitResult, error) {
	log.Printf("Session %s reached its time limit, auto-submitting", token)
	return s.finalize(token, hub, "session_expired")
}

func (s *SessionService) finalize(token string, hub *Hub, event string) (*SubmitResult, error) {
	s.finalizeMu.Lock()
	defer s.finalizeMu.Unlock()

	session, err := s.loadSession(token)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionActive {
		return nil, &ValidationError{Message: "session already completed"}
	}

	s.stopTimer(token)

	result, err := s.attempts.Submit(session.QuizID, session.UserID, session.Answers, session.StartedAt)
	if err != nil {
		return nil, err
	}

	session.Status = SessionCompleted
	session.Result = result
	if err := s.storeSession(session); err != nil {
		log.Printf("Failed to store completed session %s: %v", token, err)
	}

	if hub != nil {
		hub.BroadcastToSession(token, event, map[string]interface{}{
			"token":        token,
			"attempt_id":   result.Attempt.ID,
			"score":        result.Score,
			"total_points": result.TotalPoints,
			"percentage":   result.Percentage,
		})
	}

	log.Printf("Session %s completed: %d/%d (%d%%)", token, result.Score, result.TotalPoints, result.Percentage)
	return result, nil
}

func (s *SessionService) stopTimer(token string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[token]; ok {
		timer.Stop()
		delete(s.timers, token)
	}
}

func (s *SessionService) view(session *TakingSession, quiz *models.Quiz) *SessionView {
	view := &SessionView{
		Token:          session.Token,
		QuizID:         session.QuizID,
		QuizTitle:      quiz.Title,
		Status:         session.Status,
		CurrentIndex:   session.CurrentIndex,
		TotalQuestions: len(session.QuestionIDs),
		Answers:        session.Answers,
		Result:         session.Result,
	}

	if left := session.TimeLeft(time.Now()); left >= 0 {
		view.TimeLeft = &left
	}

	if session.Status == SessionActive &&
		session.CurrentIndex >= 0 && session.CurrentIndex < len(quiz.Questions) {
		question := quiz.Questions[session.CurrentIndex]
		current := &SessionQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Type:    question.Type,
			Points:  question.Points,
			Order:   question.Order,
			Options: make([]SessionOption, len(question.Options)),
		}
		for i, option := range question.Options {
			current.Options[i] = SessionOption{
				ID:    option.ID,
				Text:  option.Text,
				Order: option.Order,
				// IsCorrect is intentionally omitted
			}
		}
		view.Question = current
	}

	return view
}

func (s *SessionService) storeSession(session *TakingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(context.Background(), sessionKey(session.Token), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

func (s *SessionService) loadSession(token string) (*TakingSession, error) {
	data, err := s.redis.Get(context.Background(), sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, &NotFoundError{Resource: "session"}
		}
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var session TakingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func generateSessionToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
