package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/easydelivery/easydelivery/internal/metrics"
	"github.com/easydelivery/easydelivery/internal/model"
	"github.com/easydelivery/easydelivery/internal/repository"
)

// UserService handles user registration.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// CreateUser stores a user unless one with the same email already exists.
//
// The lookup handles the common case; the store's unique constraint on email
// catches concurrent registrations that both pass the lookup.
func (s *UserService) CreateUser(ctx context.Context, user model.Document) (*model.InsertResult, error) {
	email := model.UserEmail(user)

	_, err := s.store.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		s.metrics.IncUserConflict()
		return nil, ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	id, err := s.store.InsertUser(ctx, user.Without(model.FieldID))
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncUserConflict()
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.metrics.IncUserCreated()

	return model.NewInsertResult(id), nil
}
