package user

import (
	"context"
	"errors"

	"handy/internal/models"
	"handy/internal/repositories"
)

type Service interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("user id is required")
	}
	return s.repo.Update(ctx, user)
}
