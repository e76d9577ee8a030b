package app

import (
	"context"

	"github.com/gofernie/fernie-eggs/internal/domain"
)

type StatusRepository interface {
	GetConfig(ctx context.Context) (domain.StockConfig, error)
}

type StatusService struct {
	repo StatusRepository
}

func NewStatusService(repo StatusRepository) *StatusService {
	return &StatusService{repo: repo}
}

type StatusSnapshot struct {
	Dozens int
	Price  float64
}

// Snapshot reads the public stock view fresh from the store.
func (s *StatusService) Snapshot(ctx context.Context) (StatusSnapshot, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return StatusSnapshot{}, err
	}
	return StatusSnapshot{
		Dozens: cfg.Dozens,
		Price:  cfg.Price,
	}, nil
}
