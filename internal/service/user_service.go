package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/repository"

	"github.com/rs/zerolog"
)

type UserStore interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUserName(ctx context.Context, userID int, firstName, lastName string) error
	UpdateUserEmail(ctx context.Context, userID int, email string) error
	UpdateUserPassword(ctx context.Context, userID int, passwordHash string) error
}

type UserService struct {
	store  UserStore
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewUserService(store UserStore, hasher PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, log: log}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a user. An email that is already registered fails with
// ErrConflict, whether caught by the lookup or by the unique index.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return model.User{}, validationf("firstName, lastName, email and password are required")
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return model.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Msg("failed to look up email")
		return model.User{}, readError("user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.store.CreateUser(ctx, model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		s.log.Error().Err(err).Msg("failed to create user")
		return model.User{}, writeError("user", err)
	}

	s.log.Info().Int("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Authenticate returns the user owning email when password matches.
// Unknown emails and wrong passwords both yield ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, validationf("email and password are required")
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUnauthorized
		}
		s.log.Error().Err(err).Msg("failed to authenticate user")
		return model.User{}, readError("user", err)
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return model.User{}, ErrUnauthorized
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int) (model.User, error) {
	if userID <= 0 {
		return model.User{}, validationf("user id must be positive")
	}
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int("user_id", userID).Msg("failed to fetch user")
		}
		return model.User{}, readError("user", err)
	}
	return u, nil
}

func (s *UserService) UpdateName(ctx context.Context, userID int, firstName, lastName string) error {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if userID <= 0 || firstName == "" || lastName == "" {
		return validationf("userId, firstname and lastname are required")
	}
	if err := s.store.UpdateUserName(ctx, userID, firstName, lastName); err != nil {
		return s.logWrite(userID, "user name", err)
	}
	return nil
}

// UpdateEmail changes the email of a user after checking their current
// password.
func (s *UserService) UpdateEmail(ctx context.Context, userID int, password, email string) error {
	email = normalizeEmail(email)
	if userID <= 0 || password == "" || email == "" {
		return validationf("userId, password and email are required")
	}
	if _, err := s.verifyPassword(ctx, userID, password); err != nil {
		return err
	}
	if err := s.store.UpdateUserEmail(ctx, userID, email); err != nil {
		return s.logWrite(userID, "user email", err)
	}
	return nil
}

// UpdatePassword replaces the password of a user after checking the current
// one.
func (s *UserService) UpdatePassword(ctx context.Context, userID int, password, newPassword string) error {
	if userID <= 0 || password == "" || newPassword == "" {
		return validationf("userId, password and newPassword are required")
	}
	if _, err := s.verifyPassword(ctx, userID, password); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return s.logWrite(userID, "user password", err)
	}
	return nil
}

func (s *UserService) verifyPassword(ctx context.Context, userID int, password string) (model.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return model.User{}, fmt.Errorf("%w: invalid current password", ErrUnauthorized)
	}
	return u, nil
}

func (s *UserService) logWrite(userID int, what string, err error) error {
	mapped := writeError(what, err)
	if errors.Is(mapped, ErrWrite) {
		s.log.Error().Err(err).Int("user_id", userID).Msgf("failed to update %s", what)
	}
	return mapped
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
