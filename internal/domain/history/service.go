package history

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByDog(ctx context.Context, dogID string, filter ListFilter) ([]Event, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, ErrInvalidInput
	}
	for _, t := range filter.Types {
		if !validEventType(t) {
			return nil, ErrInvalidInput
		}
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	return s.repo.ListByDog(ctx, dogID, filter)
}

func (s *Service) ListByApplication(ctx context.Context, applicationID string) ([]Event, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByApplication(ctx, applicationID)
}
