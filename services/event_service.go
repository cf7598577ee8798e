package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orbit.events/configs/configslog"
	"orbit.events/models"
	"orbit.events/repositories"

	"github.com/go-playground/validator"
	"gorm.io/gorm"
)

// EventServiceError is the typed error family for event operations.
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound     EventServiceError = "event not found"
	ErrEventForbidden    EventServiceError = "you are not authorized to modify this event"
	ErrEventInvalidInput EventServiceError = "invalid event data"
	ErrMissingImage      EventServiceError = "please either supply an image or select the placeholder"
)

// EventInput is a whole candidate submission. Cross-field rules (end after
// start) live in the tags so validation always sees sibling fields.
type EventInput struct {
	Title          string               `validate:"required"`
	Category       models.EventCategory `validate:"required,oneof=Astronomy Science Space Education Other"`
	StartsAt       time.Time            `validate:"required,gt"`
	EndsAt         time.Time            `validate:"required,gtfield=StartsAt"`
	Location       string               `validate:"required"`
	Details        string               `validate:"required"`
	ImageRef       string               // caller-supplied image reference, if any
	UsePlaceholder bool                 // explicit "no image" choice
}

// IEventService is the event lifecycle boundary.
type IEventService interface {
	CreateEvent(ctx context.Context, hostID uint, input EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, callerID, eventID uint, input EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, callerID, eventID uint) error
	GetEventByID(ctx context.Context, id uint) (*models.Event, int64, error)
	GetAllEvents(ctx context.Context) ([]models.Event, error)
}

// EventService implements IEventService.
type EventService struct {
	events repositories.IEventRepository
	rsvps  repositories.IRSVPRepository
}

// NewEventService builds the service on the shared connection.
func NewEventService() IEventService {
	return &EventService{
		events: repositories.NewEventRepository(),
		rsvps:  repositories.NewRSVPRepository(),
	}
}

// NewEventServiceWithDB builds the service on an explicit connection.
func NewEventServiceWithDB(db *gorm.DB) IEventService {
	return &EventService{
		events: repositories.NewEventRepositoryWithDB(db),
		rsvps:  repositories.NewRSVPRepositoryWithDB(db),
	}
}

// ValidateEventInput runs the field and cross-field rules for a user
// submission. Seed rows never pass through here; the catalog is exempt.
func ValidateEventInput(input EventInput) error {
	if err := validate.Struct(&input); err != nil {
		return fmt.Errorf("%w: %s", ErrEventInvalidInput, eventValidationMessage(err))
	}
	return nil
}

// CreateEvent validates and persists a user-authored event. The creator
// becomes host; the owned-events view derives from the host foreign key.
func (s *EventService) CreateEvent(ctx context.Context, hostID uint, input EventInput) (*models.Event, error) {
	if hostID == 0 {
		return nil, fmt.Errorf("%w: missing host", ErrEventInvalidInput)
	}
	if err := ValidateEventInput(input); err != nil {
		return nil, err
	}

	image, err := resolveImage(input, "")
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:    input.Title,
		Category: input.Category,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		Location: input.Location,
		Details:  input.Details,
		Image:    image,
		HostID:   hostID,
		IsSeed:   false,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	configslog.SLog.Infow("event created", "eventID", event.ID, "hostID", hostID)
	return event, nil
}

// UpdateEvent replaces the mutable fields of an event. The route gate has
// already run, but host ownership is re-checked here: this is a
// consistency-critical boundary.
func (s *EventService) UpdateEvent(ctx context.Context, callerID, eventID uint, input EventInput) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.HostID != callerID {
		return nil, ErrEventForbidden
	}
	if err := ValidateEventInput(input); err != nil {
		return nil, err
	}

	// Keep the previous image unless a new reference arrives or the
	// placeholder is explicitly requested.
	image, err := resolveImage(input, event.Image)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Category = input.Category
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.Location = input.Location
	event.Details = input.Details
	event.Image = image

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent cascades child-before-parent: RSVPs referencing the event go
// first, then the event row. A crash in between leaves only orphan-free
// state, so a retry is safe.
func (s *EventService) DeleteEvent(ctx context.Context, callerID, eventID uint) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.HostID != callerID {
		return ErrEventForbidden
	}

	removed, err := s.rsvps.DeleteByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}
	configslog.SLog.Infow("event deleted", "eventID", eventID, "rsvpsRemoved", removed)
	return nil
}

// GetEventByID loads an event with its host plus a fresh YES headcount.
func (s *EventService) GetEventByID(ctx context.Context, id uint) (*models.Event, int64, error) {
	event, err := s.events.FindByIDWithHost(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrEventNotFound
		}
		return nil, 0, err
	}
	yesCount, err := s.rsvps.CountYesByEvent(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return event, yesCount, nil
}

// GetAllEvents returns the listing, ordered by category then start time.
func (s *EventService) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	return s.events.FindAll(ctx)
}

func resolveImage(input EventInput, previous string) (string, error) {
	switch {
	case input.UsePlaceholder:
		return models.DefaultEventImage, nil
	case input.ImageRef != "":
		return input.ImageRef, nil
	case previous != "":
		return previous, nil
	}
	return "", ErrMissingImage
}

func eventValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Title":
		return "event title is required"
	case fe.Field() == "Category" && fe.Tag() == "oneof":
		return "invalid category"
	case fe.Field() == "Category":
		return "category is required"
	case fe.Field() == "StartsAt" && fe.Tag() == "gt":
		return "start date must be after today"
	case fe.Field() == "StartsAt":
		return "start date is required"
	case fe.Field() == "EndsAt" && fe.Tag() == "gtfield":
		return "end date must be after the start date"
	case fe.Field() == "EndsAt":
		return "end date is required"
	case fe.Field() == "Location":
		return "location is required"
	case fe.Field() == "Details":
		return "description is required"
	}
	return "invalid input"
}

var _ IEventService = (*EventService)(nil)
