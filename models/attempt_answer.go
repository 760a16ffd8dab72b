package models

import (
	"time"

	"gorm.io/gorm"
)

type AttemptAnswer struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	AttemptID    uint           `json:"attempt_id" gorm:"not null"`
	QuestionID   uint           `json:"question_id" gorm:"not null"`
	SelectedText string         `json:"selected_text"` // empty string when the taker skipped the question
	IsCorrect    bool           `json:"is_correct" gorm:"not null"`
	Points       int            `json:"points" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Attempt  Attempt  `json:"attempt,omitempty"`
	Question Question `json:"question,omitempty"`
}
