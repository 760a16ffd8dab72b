package services

import (
	"errors"

	"quizdeck/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultUserEmail identifies the single seeded admin account. The
// system has no authentication; submissions are attributed to this user
// by the handlers, which pass its ID down explicitly.
const DefaultUserEmail = "admin@quiz.com"

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// EnsureDefaultUser creates the default admin user if it does not exist
// yet. Called once at startup.
func (s *UserService) EnsureDefaultUser() (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", DefaultUserEmail).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("change-me"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Email:    DefaultUserEmail,
		Name:     "Admin User",
		Password: string(hash),
		Role:     "ADMIN",
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DefaultUser resolves the seeded admin user.
func (s *UserService) DefaultUser() (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", DefaultUserEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}
