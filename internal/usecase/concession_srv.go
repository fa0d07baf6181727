package usecase

import (
	"context"

	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/response"

	"go.uber.org/zap"
)

type ConcessionService interface {
	GetAvailable(ctx context.Context) ([]response.ConcessionResponse, error)
}

type concessionService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewConcessionService(repo *repository.Repository, log *zap.Logger) ConcessionService {
	return &concessionService{
		repo: repo,
		log:  log.With(zap.String("service", "concession")),
	}
}

func (s *concessionService) GetAvailable(ctx context.Context) ([]response.ConcessionResponse, error) {
	concessions, err := s.repo.Concession.FindAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.ConcessionResponse, 0, len(concessions))
	for _, c := range concessions {
		data = append(data, response.ConcessionToResponse(c))
	}
	return data, nil
}
