package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"medsales/m/domain"
	"medsales/m/internal/store"
)

type UserInput struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	IsAdmin         bool   `json:"is_admin"`
}

func (s *Service) AddUser(ctx context.Context, in UserInput) (domain.User, error) {
	if err := s.check(in); err != nil {
		return domain.User{}, err
	}
	q := s.store.Queries()
	if _, err := q.GetUserByUsername(ctx, in.Username); err == nil {
		return domain.User{}, invalid("username", "is already taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, s.logFailure("AddUser", "lookup username", in.Username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, s.logFailure("AddUser", "hash password", in.Username, err)
	}
	u := domain.User{Username: in.Username, PasswordHash: string(hash), IsAdmin: in.IsAdmin}
	if err := q.CreateUser(ctx, &u); err != nil {
		return domain.User{}, s.logFailure("AddUser", "insert user", in.Username, err)
	}
	s.logger.WithField("username", u.Username).Info("user created")
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.Queries().ListUsers(ctx)
}

// Authenticate returns the user whose bcrypt hash matches password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.store.Queries().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, s.logFailure("Authenticate", "lookup user", username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin creates the admin account unless that username already exists.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.store.Queries().GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if _, err := s.AddUser(ctx, UserInput{Username: username, Password: password, ConfirmPassword: password, IsAdmin: true}); err != nil {
		return false, err
	}
	return true, nil
}
