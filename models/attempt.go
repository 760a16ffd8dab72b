package models

import (
	"time"

	"gorm.io/gorm"
)

// AttemptCompleted is the only attempt status: attempts are written once,
// fully graded, and never mutated afterwards.
const AttemptCompleted = "COMPLETED"

type Attempt struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	QuizID      uint           `json:"quiz_id" gorm:"not null"`
	UserID      uint           `json:"user_id" gorm:"not null"`
	Score       int            `json:"score" gorm:"not null"`
	TotalPoints int            `json:"total_points" gorm:"not null"`
	Status      string         `json:"status" gorm:"not null;default:'COMPLETED'"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz            `json:"quiz,omitempty"`
	User    User            `json:"user,omitempty"`
	Answers []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}
