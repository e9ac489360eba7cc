package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahinrabby10101/farm-backend/internal/adapter/email"
	"github.com/mahinrabby10101/farm-backend/internal/adapter/nats"
	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/platform/metrics"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
)

const (
	natsSubjectInterestSubmitted     = "interest.submitted"
	natsSubjectInterestStatusUpdated = "interest.status.updated"

	notifyTimeout = 10 * time.Second
)

type SubmitInterestInput struct {
	CropID    string
	UserEmail string
	UserName  string
	Quantity  int
	Message   string
}

type UpdateInterestStatusInput struct {
	CropID         string
	InterestID     string
	Status         string
	RequesterEmail string
}

// InterestService owns the interest lifecycle: submission with per-buyer
// uniqueness and owner exclusion, and owner-only pending->terminal
// transitions. All cross-request coordination happens in the store's
// conditional writes; the service holds no request-spanning state.
type InterestService interface {
	SubmitInterest(ctx context.Context, input SubmitInterestInput) (*entity.Interest, error)
	UpdateInterestStatus(ctx context.Context, input UpdateInterestStatusInput) error
}

type interestService struct {
	cropRepo     repository.CropRepository
	cropCache    repository.CropCache
	msgPublisher nats.MessagePublisher
	emailSender  email.EmailSender
	metrics      *metrics.Manager
	log          logger.Logger
}

func NewInterestService(
	cropRepo repository.CropRepository,
	cropCache repository.CropCache,
	msgPublisher nats.MessagePublisher,
	emailSender email.EmailSender,
	m *metrics.Manager,
	log logger.Logger,
) InterestService {
	return &interestService{
		cropRepo:     cropRepo,
		cropCache:    cropCache,
		msgPublisher: msgPublisher,
		emailSender:  emailSender,
		metrics:      m,
		log:          log,
	}
}

func (s *interestService) SubmitInterest(ctx context.Context, input SubmitInterestInput) (*entity.Interest, error) {
	s.log.Infof("Submitting interest for crop %s by %s", input.CropID, input.UserEmail)

	if input.UserEmail == "" {
		return nil, fmt.Errorf("%w: user email is required", entity.ErrInvalidInput)
	}
	if input.UserName == "" {
		return nil, fmt.Errorf("%w: user name is required", entity.ErrInvalidInput)
	}
	if input.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", entity.ErrInvalidInput)
	}

	cropID, err := primitive.ObjectIDFromHex(input.CropID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed crop id %q", entity.ErrInvalidInput, input.CropID)
	}

	crop, err := s.cropRepo.GetByID(ctx, cropID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: crop %s", entity.ErrNotFound, input.CropID)
		}
		s.log.Errorf("Failed to load crop %s for interest submission: %v", input.CropID, err)
		return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	if crop.IsOwnedBy(input.UserEmail) {
		s.log.Warnf("Owner %s attempted to submit interest in own crop %s", input.UserEmail, input.CropID)
		return nil, fmt.Errorf("%w: owners cannot submit interest in their own listing", entity.ErrForbidden)
	}

	interest, err := entity.NewInterest(cropID, input.UserEmail, input.UserName, input.Quantity, input.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	// The append is conditioned on no existing interest with this email.
	// A duplicate found here rather than in the read above means we lost a
	// race to a concurrent identical submission; both cases are conflicts.
	if err := s.cropRepo.AppendInterest(ctx, cropID, interest); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateInterest):
			if s.metrics != nil {
				s.metrics.InterestConflictsTotal.Inc()
			}
			return nil, fmt.Errorf("%w: interest already sent for this crop", entity.ErrConflict)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: crop %s", entity.ErrNotFound, input.CropID)
		default:
			s.log.Errorf("Failed to append interest to crop %s: %v", input.CropID, err)
			return nil, fmt.Errorf("%w: %v", entity.ErrRepository, err)
		}
	}

	s.invalidateCache(ctx, input.CropID)
	if s.metrics != nil {
		s.metrics.InterestsSubmittedTotal.Inc()
	}

	if s.msgPublisher != nil {
		if err := s.msgPublisher.Publish(ctx, natsSubjectInterestSubmitted, interest); err != nil {
			s.log.Warnf("Failed to publish interest submitted event for crop %s: %v", input.CropID, err)
		}
	}

	s.log.Infof("Interest %s submitted for crop %s by %s", interest.ID.Hex(), input.CropID, input.UserEmail)
	return interest, nil
}

func (s *interestService) UpdateInterestStatus(ctx context.Context, input UpdateInterestStatusInput) error {
	s.log.Infof("Updating interest %s on crop %s to %s", input.InterestID, input.CropID, input.Status)

	newStatus := entity.InterestStatus(input.Status)
	if !newStatus.IsDecision() {
		return fmt.Errorf("%w: status must be %q or %q", entity.ErrInvalidInput,
			entity.InterestStatusAccepted, entity.InterestStatusRejected)
	}
	if input.RequesterEmail == "" {
		return fmt.Errorf("%w: requester email is required", entity.ErrInvalidInput)
	}

	cropID, err := primitive.ObjectIDFromHex(input.CropID)
	if err != nil {
		return fmt.Errorf("%w: malformed crop id %q", entity.ErrInvalidInput, input.CropID)
	}
	interestID, err := primitive.ObjectIDFromHex(input.InterestID)
	if err != nil {
		return fmt.Errorf("%w: malformed interest id %q", entity.ErrInvalidInput, input.InterestID)
	}

	crop, err := s.cropRepo.GetByID(ctx, cropID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: crop %s", entity.ErrNotFound, input.CropID)
		}
		s.log.Errorf("Failed to load crop %s for status update: %v", input.CropID, err)
		return fmt.Errorf("%w: %v", entity.ErrRepository, err)
	}

	if !crop.IsOwnedBy(input.RequesterEmail) {
		s.log.Warnf("Non-owner %s attempted to decide interest %s on crop %s",
			input.RequesterEmail, input.InterestID, input.CropID)
		return fmt.Errorf("%w: only the crop owner may update interest status", entity.ErrForbidden)
	}

	// Conditioned on the stored status still being pending; a terminal
	// interest is reported as a conflict, never overwritten.
	err = s.cropRepo.SetInterestStatus(ctx, repository.SetInterestStatusParams{
		CropID:     cropID,
		InterestID: interestID,
		Status:     newStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInterestDecided):
			if s.metrics != nil {
				s.metrics.InterestConflictsTotal.Inc()
			}
			return fmt.Errorf("%w: interest %s is already decided", entity.ErrConflict, input.InterestID)
		case errors.Is(err, repository.ErrInterestNotFound):
			return fmt.Errorf("%w: interest %s", entity.ErrNotFound, input.InterestID)
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%w: crop %s", entity.ErrNotFound, input.CropID)
		default:
			s.log.Errorf("Failed to set interest %s status on crop %s: %v", input.InterestID, input.CropID, err)
			return fmt.Errorf("%w: %v", entity.ErrRepository, err)
		}
	}

	s.invalidateCache(ctx, input.CropID)
	if s.metrics != nil {
		if newStatus == entity.InterestStatusAccepted {
			s.metrics.InterestsAcceptedTotal.Inc()
		} else {
			s.metrics.InterestsRejectedTotal.Inc()
		}
	}

	if s.msgPublisher != nil {
		event := map[string]interface{}{
			"cropId":     input.CropID,
			"interestId": input.InterestID,
			"status":     newStatus,
		}
		if err := s.msgPublisher.Publish(ctx, natsSubjectInterestStatusUpdated, event); err != nil {
			s.log.Warnf("Failed to publish interest status updated event for crop %s: %v", input.CropID, err)
		}
	}

	if interest, ok := crop.InterestByID(interestID); ok {
		s.notifyBuyer(crop, interest, newStatus)
	}

	s.log.Infof("Interest %s on crop %s set to %s by %s",
		input.InterestID, input.CropID, newStatus, input.RequesterEmail)
	return nil
}

func (s *interestService) invalidateCache(ctx context.Context, cropID string) {
	if s.cropCache == nil {
		return
	}
	if err := s.cropCache.Delete(ctx, cropID); err != nil {
		s.log.Warnf("Failed to invalidate cache for crop %s: %v", cropID, err)
	}
}

// notifyBuyer emails the buyer about the owner's decision. Delivery is best
// effort and never affects the operation's outcome.
func (s *interestService) notifyBuyer(crop *entity.Crop, interest *entity.Interest, status entity.InterestStatus) {
	if s.emailSender == nil {
		return
	}

	subject := fmt.Sprintf("Your interest in %s was %s", crop.Name, status)
	body := fmt.Sprintf("Hello %s,\n\nYour interest in %s (%d requested) was %s by %s.\n",
		interest.UserName, crop.Name, interest.Quantity, status, crop.Owner.OwnerName)
	to := []string{interest.UserEmail}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.emailSender.Send(ctx, to, subject, body); err != nil {
			s.log.Warnf("Failed to send decision email for interest %s: %v", interest.ID.Hex(), err)
		}
	}()
}
