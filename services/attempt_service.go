package services

import (
	"errors"
	"time"

	"quizdeck/grading"
	"quizdeck/models"

	"gorm.io/gorm"
)

type AttemptService struct {
	db *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{db: db}
}

type SubmitResult struct {
	Attempt     *models.Attempt `json:"attempt"`
	Score       int             `json:"score"`
	TotalPoints int             `json:"total_points"`
	Percentage  int             `json:"percentage"`
}

// Submit grades an answer map against the quiz's stored answer key and
// records the result as a new immutable attempt. The attempt and its
// answers are written in one transaction so a crash can never leave a
// partial attempt behind. The identity is caller-supplied; every
// submission creates a fresh attempt row.
func (s *AttemptService) Submit(quizID uint, userID uint, answers map[uint]string, startedAt time.Time) (*SubmitResult, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order"`)
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order"`)
		}).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "quiz"}
		}
		return nil, err
	}

	result := grading.Grade(quiz.Questions, answers)

	now := time.Now()
	if startedAt.IsZero() {
		startedAt = now
	}

	attempt := models.Attempt{
		QuizID:      quiz.ID,
		UserID:      user.ID,
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Status:      models.AttemptCompleted,
		StartedAt:   startedAt,
		CompletedAt: &now,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, graded := range result.Answers {
		answer := models.AttemptAnswer{
			AttemptID:    attempt.ID,
			QuestionID:   graded.QuestionID,
			SelectedText: graded.SelectedText,
			IsCorrect:    graded.IsCorrect,
			Points:       graded.Points,
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	var recorded models.Attempt
	if err := s.db.Preload("Answers").First(&recorded, attempt.ID).Error; err != nil {
		return nil, err
	}

	return &SubmitResult{
		Attempt:     &recorded,
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Percentage:  grading.Percentage(result.Score, result.TotalPoints),
	}, nil
}
