package services

import (
	"context"
	"errors"

	"orbit.events/configs/configslog"
	"orbit.events/models"
	"orbit.events/repositories"

	"gorm.io/gorm"
)

// RSVPServiceError is the typed error family for attendance operations.
type RSVPServiceError string

func (e RSVPServiceError) Error() string { return string(e) }

const (
	ErrInvalidRSVPStatus RSVPServiceError = "invalid RSVP status"
	ErrOwnEventRSVP      RSVPServiceError = "you cannot RSVP to your own event"
)

// IRSVPService maintains the unique (user, event) attendance record.
type IRSVPService interface {
	SubmitRSVP(ctx context.Context, userID, eventID uint, status models.RSVPStatus) (*models.RSVP, int64, error)
}

// RSVPService implements IRSVPService.
type RSVPService struct {
	rsvps  repositories.IRSVPRepository
	events repositories.IEventRepository
}

// NewRSVPService builds the service on the shared connection.
func NewRSVPService() IRSVPService {
	return &RSVPService{
		rsvps:  repositories.NewRSVPRepository(),
		events: repositories.NewEventRepository(),
	}
}

// NewRSVPServiceWithDB builds the service on an explicit connection.
func NewRSVPServiceWithDB(db *gorm.DB) IRSVPService {
	return &RSVPService{
		rsvps:  repositories.NewRSVPRepositoryWithDB(db),
		events: repositories.NewEventRepositoryWithDB(db),
	}
}

// SubmitRSVP upserts the attendance record for (userID, eventID) and returns
// it with a fresh YES headcount. The route gate already bars hosts, but the
// host check is repeated here: this boundary owns the consistency invariant,
// not the middleware.
func (s *RSVPService) SubmitRSVP(ctx context.Context, userID, eventID uint, status models.RSVPStatus) (*models.RSVP, int64, error) {
	if !models.ValidRSVPStatus(status) {
		return nil, 0, ErrInvalidRSVPStatus
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrEventNotFound
		}
		return nil, 0, err
	}
	if event.HostID == userID {
		return nil, 0, ErrOwnEventRSVP
	}

	rsvp := &models.RSVP{UserID: userID, EventID: eventID, Status: status}
	if err := s.rsvps.Upsert(ctx, rsvp); err != nil {
		return nil, 0, err
	}

	// The count is always recomputed from the store, never cached.
	yesCount, err := s.rsvps.CountYesByEvent(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}

	configslog.SLog.Infow("rsvp recorded",
		"userID", userID, "eventID", eventID, "status", string(status))
	return rsvp, yesCount, nil
}

var _ IRSVPService = (*RSVPService)(nil)
