package service

import (
	"context"
	"fmt"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
)

// QueryService serves the read-only owner and buyer projections over the
// catalog and its embedded interest ledger.
type QueryService interface {
	ListMyCrops(ctx context.Context, ownerEmail string) ([]entity.Crop, error)
	ListMyInterests(ctx context.Context, userEmail string) ([]entity.InterestProjection, error)
}

type queryService struct {
	cropRepo repository.CropRepository
	log      logger.Logger
}

func NewQueryService(cropRepo repository.CropRepository, log logger.Logger) QueryService {
	return &queryService{cropRepo: cropRepo, log: log}
}

func (s *queryService) ListMyCrops(ctx context.Context, ownerEmail string) ([]entity.Crop, error) {
	if ownerEmail == "" {
		return nil, fmt.Errorf("%w: email is required", entity.ErrInvalidInput)
	}

	crops, err := s.cropRepo.FindByOwnerEmail(ctx, ownerEmail)
	if err != nil {
		s.log.Errorf("Failed to list crops for owner %s: %v", ownerEmail, err)
		return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}
	return crops, nil
}

func (s *queryService) ListMyInterests(ctx context.Context, userEmail string) ([]entity.InterestProjection, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("%w: email is required", entity.ErrInvalidInput)
	}

	crops, err := s.cropRepo.FindByInterestEmail(ctx, userEmail)
	if err != nil {
		s.log.Errorf("Failed to list interests for buyer %s: %v", userEmail, err)
		return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	projections := make([]entity.InterestProjection, 0, len(crops))
	for i := range crops {
		// Crops may legitimately carry a nil or empty interests array.
		for _, interest := range crops[i].Interests {
			if interest.UserEmail != userEmail {
				continue
			}
			projections = append(projections, entity.InterestProjection{
				ID:        interest.ID,
				CropName:  crops[i].Name,
				OwnerName: crops[i].Owner.OwnerName,
				Quantity:  interest.Quantity,
				Message:   interest.Message,
				Status:    interest.Status,
			})
		}
	}
	return projections, nil
}
