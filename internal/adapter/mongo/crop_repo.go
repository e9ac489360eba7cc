package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mahinrabby10101/farm-backend/internal/app/config"
	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
)

const cropCollectionName = "crops"

type cropRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewCropRepository(client *mongo.Client, cfg config.MongoDBConfig, log logger.Logger) repository.CropRepository {
	collection := client.Database(cfg.Database).Collection(cropCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner.owner_email", Value: 1}}},
		{Keys: bson.D{{Key: "interests.user_email", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be managed externally; not fatal.
		log.Warnf("Failed to ensure indexes for %s collection: %v", cropCollectionName, err)
	}

	return &cropRepository{collection: collection, log: log}
}

func (r *cropRepository) Create(ctx context.Context, crop *entity.Crop) error {
	now := time.Now().UTC()
	crop.ID = primitive.NewObjectID()
	crop.CreatedAt = now
	crop.UpdatedAt = now
	if crop.Interests == nil {
		crop.Interests = []entity.Interest{}
	}

	if _, err := r.collection.InsertOne(ctx, crop); err != nil {
		return fmt.Errorf("failed to insert crop: %w", err)
	}
	return nil
}

func (r *cropRepository) CreateMany(ctx context.Context, crops []entity.Crop) ([]primitive.ObjectID, error) {
	now := time.Now().UTC()
	docs := make([]interface{}, len(crops))
	ids := make([]primitive.ObjectID, len(crops))
	for i := range crops {
		crops[i].ID = primitive.NewObjectID()
		crops[i].CreatedAt = now
		crops[i].UpdatedAt = now
		if crops[i].Interests == nil {
			crops[i].Interests = []entity.Interest{}
		}
		docs[i] = crops[i]
		ids[i] = crops[i].ID
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert crops: %w", err)
	}
	return ids, nil
}

func (r *cropRepository) GetByID(ctx context.Context, cropID primitive.ObjectID) (*entity.Crop, error) {
	var crop entity.Crop
	err := r.collection.FindOne(ctx, bson.M{"_id": cropID}).Decode(&crop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get crop %s: %w", cropID.Hex(), err)
	}
	return &crop, nil
}

func (r *cropRepository) List(ctx context.Context, params repository.ListCropsParams) ([]entity.Crop, error) {
	filter := bson.M{}
	if params.Type != "" {
		filter["type"] = params.Type
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Limit > 0 {
		findOptions.SetLimit(params.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list crops: %w", err)
	}
	defer cursor.Close(ctx)

	var crops []entity.Crop
	if err := cursor.All(ctx, &crops); err != nil {
		return nil, fmt.Errorf("failed to decode listed crops: %w", err)
	}
	return crops, nil
}

func (r *cropRepository) Replace(ctx context.Context, cropID primitive.ObjectID, params repository.ReplaceCropParams) error {
	update := bson.M{
		"$set": bson.M{
			"type":         params.Type,
			"name":         params.Name,
			"quantity":     params.Quantity,
			"unit":         params.Unit,
			"price_per_kg": params.PricePerKg,
			"location":     params.Location,
			"description":  params.Description,
			"updated_at":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cropID}, update)
	if err != nil {
		return fmt.Errorf("failed to replace crop %s: %w", cropID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *cropRepository) Merge(ctx context.Context, cropID primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cropID}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to merge crop %s: %w", cropID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return 0, repository.ErrNotFound
	}
	return result.ModifiedCount, nil
}

func (r *cropRepository) Delete(ctx context.Context, cropID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": cropID})
	if err != nil {
		return fmt.Errorf("failed to delete crop %s: %w", cropID.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *cropRepository) FindByOwnerEmail(ctx context.Context, ownerEmail string) ([]entity.Crop, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner.owner_email": ownerEmail},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find crops by owner %s: %w", ownerEmail, err)
	}
	defer cursor.Close(ctx)

	var crops []entity.Crop
	if err := cursor.All(ctx, &crops); err != nil {
		return nil, fmt.Errorf("failed to decode crops by owner: %w", err)
	}
	return crops, nil
}

func (r *cropRepository) FindByInterestEmail(ctx context.Context, userEmail string) ([]entity.Crop, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"interests.user_email": userEmail})
	if err != nil {
		return nil, fmt.Errorf("failed to find crops by interest email %s: %w", userEmail, err)
	}
	defer cursor.Close(ctx)

	var crops []entity.Crop
	if err := cursor.All(ctx, &crops); err != nil {
		return nil, fmt.Errorf("failed to decode crops by interest email: %w", err)
	}
	return crops, nil
}

// AppendInterest performs the uniqueness check and the append as one
// conditional write: the filter only matches the crop when no embedded
// interest carries the buyer's email, so two racing identical submissions
// cannot both succeed.
func (r *cropRepository) AppendInterest(ctx context.Context, cropID primitive.ObjectID, interest *entity.Interest) error {
	filter := bson.M{
		"_id":                  cropID,
		"interests.user_email": bson.M{"$ne": interest.UserEmail},
	}
	update := bson.M{
		"$push": bson.M{"interests": interest},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append interest to crop %s: %w", cropID.Hex(), err)
	}

	if result.MatchedCount == 0 {
		// The condition failed: either the crop vanished or the buyer lost
		// a race to their own earlier submission. One read to tell apart.
		errFind := r.collection.FindOne(ctx, bson.M{"_id": cropID}).Err()
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind != nil {
			return fmt.Errorf("failed to inspect crop %s after rejected append: %w", cropID.Hex(), errFind)
		}
		return repository.ErrDuplicateInterest
	}
	return nil
}

// SetInterestStatus transitions the matched interest out of pending as one
// conditional write: the $elemMatch filter only matches while the stored
// status is still pending, so a terminal interest is never overwritten.
func (r *cropRepository) SetInterestStatus(ctx context.Context, params repository.SetInterestStatusParams) error {
	filter := bson.M{
		"_id": params.CropID,
		"interests": bson.M{
			"$elemMatch": bson.M{
				"_id":    params.InterestID,
				"status": entity.InterestStatusPending,
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"interests.$.status": params.Status,
			"updated_at":         time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set interest status on crop %s: %w", params.CropID.Hex(), err)
	}

	if result.MatchedCount == 0 {
		var crop entity.Crop
		errFind := r.collection.FindOne(ctx, bson.M{"_id": params.CropID}).Decode(&crop)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind != nil {
			return fmt.Errorf("failed to inspect crop %s after rejected status update: %w", params.CropID.Hex(), errFind)
		}
		if _, ok := crop.InterestByID(params.InterestID); !ok {
			return repository.ErrInterestNotFound
		}
		return repository.ErrInterestDecided
	}
	return nil
}
