package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"megano/internal/domain"
	"megano/internal/repos"
	"megano/internal/validate"
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) SignIn(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// SignUp registers a user with an empty profile and signs the session in.
func (s *AuthService) SignUp(sid, name, username, password string) (*domain.User, error) {
	errs := validate.Errors{}
	username, ok := validate.Username(username)
	if !ok {
		errs["username"] = "letters, digits and @.+-_ only"
	}
	if !validate.Password(password) {
		errs["password"] = "8-20 characters with upper, lower, digit and symbol"
	}
	name = strings.TrimSpace(name)
	if name != "" {
		if _, ok := validate.Name(name); !ok {
			errs["name"] = "name is too long"
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.Users.ByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	first, last, _ := strings.Cut(name, " ")
	u := domain.User{Username: username, FirstName: first, LastName: strings.TrimSpace(last), Hash: string(h), Role: domain.RoleUser}
	if u.ID, err = s.Users.Create(u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) SignOut(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(userID int64, current, next, reply string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return ErrBadCreds
	}
	if next != reply {
		return ErrPasswordMismatch
	}
	if !validate.Password(next) {
		return validate.Errors{"newPassword": "8-20 characters with upper, lower, digit and symbol"}
	}
	h, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.SetPassword(userID, string(h))
}
