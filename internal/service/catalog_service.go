package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
)

// mergeableFields maps the JSON field names a partial update may carry to
// their stored document keys. Identity, ownership and the interest ledger
// are never patchable through this path.
var mergeableFields = map[string]string{
	"type":        "type",
	"name":        "name",
	"quantity":    "quantity",
	"unit":        "unit",
	"pricePerKg":  "price_per_kg",
	"location":    "location",
	"description": "description",
}

type CatalogService interface {
	ListCrops(ctx context.Context, cropType string, limit int64) ([]entity.Crop, error)
	GetCrop(ctx context.Context, cropID string) (*entity.Crop, error)
	CreateCrops(ctx context.Context, crops []entity.Crop) ([]string, error)
	ReplaceCrop(ctx context.Context, cropID string, params repository.ReplaceCropParams) error
	MergeCrop(ctx context.Context, cropID string, fields map[string]interface{}) (int64, error)
	DeleteCrop(ctx context.Context, cropID string) error
}

type catalogService struct {
	cropRepo  repository.CropRepository
	cropCache repository.CropCache
	cacheTTL  time.Duration
	log       logger.Logger
}

func NewCatalogService(
	cropRepo repository.CropRepository,
	cropCache repository.CropCache,
	cacheTTL time.Duration,
	log logger.Logger,
) CatalogService {
	return &catalogService{
		cropRepo:  cropRepo,
		cropCache: cropCache,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

func (s *catalogService) ListCrops(ctx context.Context, cropType string, limit int64) ([]entity.Crop, error) {
	crops, err := s.cropRepo.List(ctx, repository.ListCropsParams{Type: cropType, Limit: limit})
	if err != nil {
		s.log.Errorf("Failed to list crops: %v", err)
		return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}
	return crops, nil
}

func (s *catalogService) GetCrop(ctx context.Context, cropID string) (*entity.Crop, error) {
	id, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed crop id %q", entity.ErrInvalidInput, cropID)
	}

	if s.cropCache != nil {
		if cached, err := s.cropCache.Get(ctx, cropID); err == nil {
			return cached, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Cache lookup failed for crop %s: %v", cropID, err)
		}
	}

	crop, err := s.cropRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: crop %s", entity.ErrNotFound, cropID)
		}
		s.log.Errorf("Failed to get crop %s: %v", cropID, err)
		return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	if s.cropCache != nil {
		if err := s.cropCache.Set(ctx, crop, s.cacheTTL); err != nil {
			s.log.Warnf("Failed to cache crop %s: %v", cropID, err)
		}
	}
	return crop, nil
}

func (s *catalogService) CreateCrops(ctx context.Context, crops []entity.Crop) ([]string, error) {
	if len(crops) == 0 {
		return nil, fmt.Errorf("%w: no crops provided", entity.ErrInvalidInput)
	}

	if len(crops) == 1 {
		crop := crops[0]
		if err := s.cropRepo.Create(ctx, &crop); err != nil {
			s.log.Errorf("Failed to create crop: %v", err)
			return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
		}
		s.log.Infof("Crop %s created for owner %s", crop.ID.Hex(), crop.Owner.OwnerEmail)
		return []string{crop.ID.Hex()}, nil
	}

	ids, err := s.cropRepo.CreateMany(ctx, crops)
	if err != nil {
		s.log.Errorf("Failed to create %d crops: %v", len(crops), err)
		return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.Hex()
	}
	s.log.Infof("Created %d crops", len(hexIDs))
	return hexIDs, nil
}

func (s *catalogService) ReplaceCrop(ctx context.Context, cropID string, params repository.ReplaceCropParams) error {
	id, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return fmt.Errorf("%w: malformed crop id %q", entity.ErrInvalidInput, cropID)
	}

	if err := s.cropRepo.Replace(ctx, id, params); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: crop %s", entity.ErrNotFound, cropID)
		}
		s.log.Errorf("Failed to replace crop %s: %v", cropID, err)
		return fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	s.invalidateCache(ctx, cropID)
	return nil
}

func (s *catalogService) MergeCrop(ctx context.Context, cropID string, fields map[string]interface{}) (int64, error) {
	id, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed crop id %q", entity.ErrInvalidInput, cropID)
	}

	patch := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if docKey, ok := mergeableFields[key]; ok {
			patch[docKey] = value
		}
	}
	if len(patch) == 0 {
		return 0, nil
	}

	modified, err := s.cropRepo.Merge(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: crop %s", entity.ErrNotFound, cropID)
		}
		s.log.Errorf("Failed to merge crop %s: %v", cropID, err)
		return 0, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	s.invalidateCache(ctx, cropID)
	return modified, nil
}

func (s *catalogService) DeleteCrop(ctx context.Context, cropID string) error {
	id, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return fmt.Errorf("%w: malformed crop id %q", entity.ErrInvalidInput, cropID)
	}

	// Interests are embedded, so deleting the document cascades them.
	if err := s.cropRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: crop %s", entity.ErrNotFound, cropID)
		}
		s.log.Errorf("Failed to delete crop %s: %v", cropID, err)
		return fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	s.invalidateCache(ctx, cropID)
	s.log.Infof("Crop %s deleted", cropID)
	return nil
}

func (s *catalogService) invalidateCache(ctx context.Context, cropID string) {
	if s.cropCache == nil {
		return
	}
	if err := s.cropCache.Delete(ctx, cropID); err != nil {
		s.log.Warnf("Failed to invalidate cache for crop %s: %v", cropID, err)
	}
}
