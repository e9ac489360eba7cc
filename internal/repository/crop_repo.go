package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
)

type ListCropsParams struct {
	Type  string
	Limit int64
}

type ReplaceCropParams struct {
	Type        string
	Name        string
	Quantity    int
	Unit        string
	PricePerKg  float64
	Location    string
	Description string
}

type SetInterestStatusParams struct {
	CropID     primitive.ObjectID
	InterestID primitive.ObjectID
	Status     entity.InterestStatus
}

// CropRepository is the persistence contract over crop documents. Every
// mutation that carries a business invariant (AppendInterest,
// SetInterestStatus) must be a single atomic conditional write: a read
// followed by a separate write would reopen the races these conditions close.
type CropRepository interface {
	Create(ctx context.Context, crop *entity.Crop) error
	CreateMany(ctx context.Context, crops []entity.Crop) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, cropID primitive.ObjectID) (*entity.Crop, error)
	List(ctx context.Context, params ListCropsParams) ([]entity.Crop, error)
	Replace(ctx context.Context, cropID primitive.ObjectID, params ReplaceCropParams) error
	Merge(ctx context.Context, cropID primitive.ObjectID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, cropID primitive.ObjectID) error

	FindByOwnerEmail(ctx context.Context, ownerEmail string) ([]entity.Crop, error)
	FindByInterestEmail(ctx context.Context, userEmail string) ([]entity.Crop, error)

	// AppendInterest pushes interest onto the crop's interests array,
	// conditioned on no existing interest with the same user email.
	// Returns ErrNotFound if the crop is gone, ErrDuplicateInterest if the
	// condition failed because the buyer already has an interest there.
	AppendInterest(ctx context.Context, cropID primitive.ObjectID, interest *entity.Interest) error

	// SetInterestStatus sets the matched interest's status, conditioned on
	// its stored status still being pending. Returns ErrNotFound if the crop
	// is gone, ErrInterestNotFound if no such interest exists, and
	// ErrInterestDecided if the interest is already terminal.
	SetInterestStatus(ctx context.Context, params SetInterestStatusParams) error
}

// CropCache is a read-through cache of crop documents keyed by id.
type CropCache interface {
	Get(ctx context.Context, cropID string) (*entity.Crop, error)
	Set(ctx context.Context, crop *entity.Crop, ttl time.Duration) error
	Delete(ctx context.Context, cropID string) error
}
