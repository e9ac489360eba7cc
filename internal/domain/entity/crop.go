package entity

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterestStatus is the lifecycle state of a buyer's interest.
// An interest starts pending; accepted and rejected are terminal.
type InterestStatus string

const (
	InterestStatusPending  InterestStatus = "pending"
	InterestStatusAccepted InterestStatus = "accepted"
	InterestStatusRejected InterestStatus = "rejected"
)

func (s InterestStatus) IsValid() bool {
	switch s {
	case InterestStatusPending, InterestStatusAccepted, InterestStatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a status an owner may move a pending
// interest to.
func (s InterestStatus) IsDecision() bool {
	return s == InterestStatusAccepted || s == InterestStatusRejected
}

func (s InterestStatus) IsTerminal() bool {
	return s.IsDecision()
}

// CropOwner identifies the listing's controller. Immutable after creation.
type CropOwner struct {
	OwnerEmail string `bson:"owner_email" json:"ownerEmail"`
	OwnerName  string `bson:"owner_name" json:"ownerName"`
}

// Interest is a buyer's expression of intent against a specific crop. It has
// no lifecycle of its own: it lives and dies embedded in its crop document.
type Interest struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CropID    primitive.ObjectID `bson:"crop_id" json:"cropId"`
	UserEmail string             `bson:"user_email" json:"userEmail"`
	UserName  string             `bson:"user_name" json:"userName"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Status    InterestStatus     `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// NewInterest validates buyer input and builds a pending interest for cropID.
func NewInterest(cropID primitive.ObjectID, userEmail, userName string, quantity int, message string) (*Interest, error) {
	if userEmail == "" {
		return nil, errors.New("user email cannot be empty")
	}
	if userName == "" {
		return nil, errors.New("user name cannot be empty")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be a positive integer")
	}
	return &Interest{
		ID:        primitive.NewObjectID(),
		CropID:    cropID,
		UserEmail: userEmail,
		UserName:  userName,
		Quantity:  quantity,
		Message:   message,
		Status:    InterestStatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Crop is a marketplace listing with zero or more embedded buyer interests.
type Crop struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner       CropOwner          `bson:"owner" json:"owner"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Quantity    int                `bson:"quantity,omitempty" json:"quantity"`
	Unit        string             `bson:"unit,omitempty" json:"unit,omitempty"`
	PricePerKg  float64            `bson:"price_per_kg,omitempty" json:"pricePerKg"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Interests   []Interest         `bson:"interests" json:"interests"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// IsOwnedBy reports whether email controls this listing.
func (c *Crop) IsOwnedBy(email string) bool {
	return c.Owner.OwnerEmail == email
}

// InterestFrom returns the interest submitted by email, if any.
func (c *Crop) InterestFrom(email string) (*Interest, bool) {
	for i := range c.Interests {
		if c.Interests[i].UserEmail == email {
			return &c.Interests[i], true
		}
	}
	return nil, false
}

// InterestByID returns the embedded interest with the given id, if any.
func (c *Crop) InterestByID(id primitive.ObjectID) (*Interest, bool) {
	for i := range c.Interests {
		if c.Interests[i].ID == id {
			return &c.Interests[i], true
		}
	}
	return nil, false
}

// InterestProjection is the buyer-scoped view of an interest joined with
// fields of its owning crop.
type InterestProjection struct {
	ID        primitive.ObjectID `json:"id"`
	CropName  string             `json:"cropName"`
	OwnerName string             `json:"ownerName"`
	Quantity  int                `json:"quantity"`
	Message   string             `json:"message,omitempty"`
	Status    InterestStatus     `json:"status"`
}
