package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edusite/edusite/database"
	"github.com/edusite/edusite/database/model"
	"github.com/edusite/edusite/util/crypto"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetFirstUser(ctx context.Context) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Model(model.User{}).
		Order("id").
		First(user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Model(model.User{}).
		Where("email = ?", strings.TrimSpace(email)).
		First(user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownEmail
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user owning email when password matches.
// It fails with ErrUnknownEmail or ErrWrongPassword.
func (s *UserService) Authenticate(ctx context.Context, email string, password string) (*model.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// Create adds an administrator. A taken email fails with ErrDuplicateEmail.
func (s *UserService) Create(ctx context.Context, username string, email string, password string, role int) (*model.User, error) {
	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: hashedPassword,
		Role:     role,
	}
	if user.Username == "" || user.Email == "" {
		return nil, errors.New("username and email can not be empty")
	}

	err = s.db.WithContext(ctx).Create(user).Error
	if database.IsDuplicate(err) {
		return nil, fmt.Errorf("%s: %w", user.Email, ErrDuplicateEmail)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the password hash of the user owning email.
func (s *UserService) SetPassword(ctx context.Context, email string, password string) error {
	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).
		Update("password", hashedPassword).
		Error
}
