package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
)

type MockCropRepository struct {
	mock.Mock
}

func (m *MockCropRepository) Create(ctx context.Context, crop *entity.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *MockCropRepository) CreateMany(ctx context.Context, crops []entity.Crop) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, crops)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockCropRepository) GetByID(ctx context.Context, cropID primitive.ObjectID) (*entity.Crop, error) {
	args := m.Called(ctx, cropID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Crop), args.Error(1)
}

func (m *MockCropRepository) List(ctx context.Context, params repository.ListCropsParams) ([]entity.Crop, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Crop), args.Error(1)
}

func (m *MockCropRepository) Replace(ctx context.Context, cropID primitive.ObjectID, params repository.ReplaceCropParams) error {
	args := m.Called(ctx, cropID, params)
	return args.Error(0)
}

func (m *MockCropRepository) Merge(ctx context.Context, cropID primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, cropID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCropRepository) Delete(ctx context.Context, cropID primitive.ObjectID) error {
	args := m.Called(ctx, cropID)
	return args.Error(0)
}

func (m *MockCropRepository) FindByOwnerEmail(ctx context.Context, ownerEmail string) ([]entity.Crop, error) {
	args := m.Called(ctx, ownerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Crop), args.Error(1)
}

func (m *MockCropRepository) FindByInterestEmail(ctx context.Context, userEmail string) ([]entity.Crop, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Crop), args.Error(1)
}

func (m *MockCropRepository) AppendInterest(ctx context.Context, cropID primitive.ObjectID, interest *entity.Interest) error {
	args := m.Called(ctx, cropID, interest)
	return args.Error(0)
}

func (m *MockCropRepository) SetInterestStatus(ctx context.Context, params repository.SetInterestStatusParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type MockCropCache struct {
	mock.Mock
}

func (m *MockCropCache) Get(ctx context.Context, cropID string) (*entity.Crop, error) {
	args := m.Called(ctx, cropID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Crop), args.Error(1)
}

func (m *MockCropCache) Set(ctx context.Context, crop *entity.Crop, ttl time.Duration) error {
	args := m.Called(ctx, crop, ttl)
	return args.Error(0)
}

func (m *MockCropCache) Delete(ctx context.Context, cropID string) error {
	args := m.Called(ctx, cropID)
	return args.Error(0)
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}
