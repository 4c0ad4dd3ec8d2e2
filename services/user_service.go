package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"hotel-admin/models"
)

type UserService struct {
	DB *gorm.DB

	validate *validator.Validate
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, validate: validator.New()}
}

type CreateUserInput struct {
	Name  string `validate:"required,max=255"`
	Email string `validate:"required,email"`
	Phone string `validate:"max=50"`
}

// Create registers a guest account. E-mails are unique case-insensitively.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", in.Email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check e-mail: %w", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: e-mail %s is already registered", ErrConflict, in.Email)
	}

	u := models.User{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: e-mail %s is already registered", ErrConflict, in.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}
