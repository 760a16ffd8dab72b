package services

import (
	"errors"
	"strings"
	"time"

	"quizdeck/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	TimeLimit   int                     `json:"time_limit" binding:"omitempty,min=1"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Text           string   `json:"text" binding:"required"`
	Type           string   `json:"type" binding:"required"`
	Points         int      `json:"points"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
}

type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TimeLimit   *int    `json:"time_limit"`
	IsPublished *bool   `json:"is_published"`
}

type AddQuestionRequest struct {
	Text    string        `json:"text" binding:"required"`
	Type    string        `json:"type" binding:"required"`
	Points  int           `json:"points"`
	Options []OptionInput `json:"options"`
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type CreatorSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type QuizSummary struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	TimeLimit     int            `json:"time_limit"`
	IsPublished   bool           `json:"is_published"`
	CreatedAt     time.Time      `json:"created_at"`
	Creator       CreatorSummary `json:"creator"`
	QuestionCount int64          `json:"question_count"`
	AttemptCount  int64          `json:"attempt_count"`
}

type QuizDebugSnapshot struct {
	Quiz     *models.Quiz     `json:"quiz"`
	Attempts []models.Attempt `json:"attempts"`
	Summary  DebugSummary     `json:"summary"`
}

type DebugSummary struct {
	TotalQuestions int     `json:"total_questions"`
	TotalPoints    int     `json:"total_points"`
	TotalAttempts  int     `json:"total_attempts"`
	AverageScore   float64 `json:"average_score"`
}

func (s *QuizService) CreateQuiz(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Message: "title is required"}
	}

	// Validate every question before touching the store.
	optionRows := make([][]models.Option, len(req.Questions))
	for i, qReq := range req.Questions {
		if strings.TrimSpace(qReq.Text) == "" {
			return nil, &ValidationError{Message: "question text is required"}
		}
		rows, err := optionsForQuestion(qReq.Type, qReq.Options, qReq.CorrectAnswers)
		if err != nil {
			return nil, err
		}
		optionRows[i] = rows
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		TimeLimit:   req.TimeLimit,
		UserID:      userID,
	}

	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, qReq := range req.Questions {
		question := models.Question{
			QuizID: quiz.ID,
			Text:   qReq.Text,
			Type:   qReq.Type,
			Points: defaultPoints(qReq.Points),
			Order:  i + 1,
		}

		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for _, option := range optionRows[i] {
			option.QuestionID = question.ID
			if err := tx.Create(&option).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetQuizByID(quiz.ID)
}

func (s *QuizService) ListQuizzes() ([]QuizSummary, error) {
	var quizzes []models.Quiz
	err := s.db.Preload("User").
		Order("created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	questionCounts, err := s.countByQuiz(&models.Question{})
	if err != nil {
		return nil, err
	}
	attemptCounts, err := s.countByQuiz(&models.Attempt{})
	if err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, QuizSummary{
			ID:          quiz.ID,
			Title:       quiz.Title,
			Description: quiz.Description,
			TimeLimit:   quiz.TimeLimit,
			IsPublished: quiz.IsPublished,
			CreatedAt:   quiz.CreatedAt,
			Creator: CreatorSummary{
				ID:    quiz.User.ID,
				Name:  quiz.User.Name,
				Email: quiz.User.Email,
			},
			QuestionCount: questionCounts[quiz.ID],
			AttemptCount:  attemptCounts[quiz.ID],
		})
	}
	return summaries, nil
}

func (s *QuizService) GetQuizByID(quizID uint) (*models.Quiz, error) {
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
	return &quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, &ValidationError{Message: "title is required"}
		}
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		if *req.TimeLimit < 0 {
			return nil, &ValidationError{Message: "time limit must be positive"}
		}
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	if err := s.db.Save(quiz).Error; err != nil {
		return nil, err
	}
	return s.GetQuizByID(quizID)
}

func (s *QuizService) DeleteQuiz(quizID uint) error {
	if _, err := s.GetQuizByID(quizID); err != nil {
		return err
	}
	return s.db.Delete(&models.Quiz{}, quizID).Error
}

func (s *QuizService) ListQuestions(quizID uint) ([]models.Question, error) {
	if _, err := s.GetQuizByID(quizID); err != nil {
		return nil, err
	}

	var questions []models.Question
	err := s.db.Where("quiz_id = ?", quizID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order"`)
		}).
		Order(`"order"`).
		Find(&questions).Error
	return questions, err
}

// AddQuestion appends a question at the next order position.
func (s *QuizService) AddQuestion(quizID uint, req *AddQuestionRequest) (*models.Question, error) {
	if _, err := s.GetQuizByID(quizID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Message: "question text is required"}
	}
	if !validQuestionType(req.Type) {
		return nil, &ValidationError{Message: "unknown question type: " + req.Type}
	}

	correctCount := 0
	for _, opt := range req.Options {
		if opt.IsCorrect {
			correctCount++
		}
	}
	if correctCount > 1 && req.Type != models.QuestionShortAnswer {
		return nil, &ValidationError{Message: "at most one option may be marked correct"}
	}

	var maxOrder int
	err := s.db.Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&maxOrder).Error
	if err != nil {
		return nil, err
	}

	question := models.Question{
		QuizID: quizID,
		Text:   req.Text,
		Type:   req.Type,
		Points: defaultPoints(req.Points),
		Order:  maxOrder + 1,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, opt := range req.Options {
		option := models.Option{
			QuestionID: question.ID,
			Text:       opt.Text,
			IsCorrect:  opt.IsCorrect,
			Order:      i + 1,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	var created models.Question
	err = s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order(`"order"`)
	}).First(&created, question.ID).Error
	return &created, err
}

// DebugSnapshot returns the quiz, its full attempt history, and summary
// statistics. Diagnostic endpoint, not part of the grading contract.
func (s *QuizService) DebugSnapshot(quizID uint) (*QuizDebugSnapshot, error) {
	quiz, err := s.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}

	var attempts []models.Attempt
	err = s.db.Where("quiz_id = ?", quizID).
		Preload("Answers").
		Preload("User").
		Order("started_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	totalPoints := 0
	for _, question := range quiz.Questions {
		totalPoints += question.Points
	}

	averageScore := 0.0
	if len(attempts) > 0 {
		sum := 0
		for _, attempt := range attempts {
			sum += attempt.Score
		}
		averageScore = float64(sum) / float64(len(attempts))
	}

	return &QuizDebugSnapshot{
		Quiz:     quiz,
		Attempts: attempts,
		Summary: DebugSummary{
			TotalQuestions: len(quiz.Questions),
			TotalPoints:    totalPoints,
			TotalAttempts:  len(attempts),
			AverageScore:   averageScore,
		},
	}, nil
}

func (s *QuizService) countByQuiz(model interface{}) (map[uint]int64, error) {
	var rows []struct {
		QuizID uint
		Count  int64
	}
	err := s.db.Model(model).
		Select("quiz_id, COUNT(*) AS count").
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.QuizID] = row.Count
	}
	return counts, nil
}

// optionsForQuestion builds the option rows a new question needs:
// N rows for multiple-choice (blank texts skipped), the fixed
// "true"/"false" pair for true/false, none for short-answer. QuestionID
// is left unset; the caller fills it in after the question row exists.
func optionsForQuestion(questionType string, options []string, correctAnswers []string) ([]models.Option, error) {
	switch questionType {
	case models.QuestionMultipleChoice:
		var rows []models.Option
		correctCount := 0
		for _, text := range options {
			if strings.TrimSpace(text) == "" {
				continue
			}
			isCorrect := containsString(correctAnswers, text)
			if isCorrect {
				correctCount++
			}
			rows = append(rows, models.Option{
				Text:      text,
				IsCorrect: isCorrect,
				Order:     len(rows) + 1,
			})
		}
		if correctCount > 1 {
			return nil, &ValidationError{Message: "at most one option may be marked correct"}
		}
		return rows, nil

	case models.QuestionTrueFalse:
		if containsString(correctAnswers, "true") && containsString(correctAnswers, "false") {
			return nil, &ValidationError{Message: "a true/false question cannot have two correct answers"}
		}
		return []models.Option{
			{Text: "true", IsCorrect: containsString(correctAnswers, "true"), Order: 1},
			{Text: "false", IsCorrect: containsString(correctAnswers, "false"), Order: 2},
		}, nil

	case models.QuestionShortAnswer:
		return nil, nil

	default:
		return nil, &ValidationError{Message: "unknown question type: " + questionType}
	}
}

func defaultPoints(points int) int {
	if points <= 0 {
		return 1
	}
	return points
}

func validQuestionType(questionType string) bool {
	switch questionType {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse, models.QuestionShortAnswer:
		return true
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
