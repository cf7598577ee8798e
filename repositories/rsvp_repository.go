package repositories

import (
	"context"
	"errors"

	"orbit.events/configs/configsdatabase"
	"orbit.events/configs/configslog"
	"orbit.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IRSVPRepository is the store boundary for attendance records.
type IRSVPRepository interface {
	Upsert(ctx context.Context, rsvp *models.RSVP) error
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.RSVP, error)
	CountYesByEvent(ctx context.Context, eventID uint) (int64, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
	DeleteByEvent(ctx context.Context, eventID uint) (int64, error)
	DeleteByEventIDs(ctx context.Context, eventIDs []uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// RSVPRepository implements IRSVPRepository on GORM.
type RSVPRepository struct {
	db *gorm.DB
}

// NewRSVPRepository builds a repository on the shared connection.
func NewRSVPRepository() IRSVPRepository {
	return &RSVPRepository{db: configsdatabase.GetDB()}
}

// NewRSVPRepositoryWithDB builds a repository on an explicit connection.
func NewRSVPRepositoryWithDB(db *gorm.DB) IRSVPRepository {
	return &RSVPRepository{db: db}
}

func (r *RSVPRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Upsert writes the (user, event) attendance record. The composite unique
// index serializes concurrent submissions: ON CONFLICT turns a losing insert
// into a status update, so the later write wins and no second row can exist.
// The caller's struct is reloaded with the authoritative row afterwards.
func (r *RSVPRepository) Upsert(ctx context.Context, rsvp *models.RSVP) error {
	if rsvp == nil || rsvp.UserID == 0 || rsvp.EventID == 0 {
		return errors.New("rsvp requires both user and event")
	}
	db := r.getDB(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(rsvp).Error
	if err != nil {
		configslog.Log.Error("RSVPRepository.Upsert: DB error",
			zap.Uint("userID", rsvp.UserID), zap.Uint("eventID", rsvp.EventID), zap.Error(err))
		return err
	}

	// On conflict the generated ID in rsvp may not match the surviving row.
	var stored models.RSVP
	err = db.Where("user_id = ? AND event_id = ?", rsvp.UserID, rsvp.EventID).First(&stored).Error
	if err != nil {
		configslog.Log.Error("RSVPRepository.Upsert: reload failed", zap.Error(err))
		return err
	}
	*rsvp = stored
	return nil
}

// FindByUserAndEvent loads the single attendance record for a pair.
func (r *RSVPRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.RSVP, error) {
	if userID == 0 || eventID == 0 {
		return nil, ErrNotFound
	}
	var rsvp models.RSVP
	err := r.getDB(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&rsvp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RSVPRepository.FindByUserAndEvent: DB error", zap.Error(err))
		return nil, err
	}
	return &rsvp, nil
}

// CountYesByEvent computes the current YES headcount, read fresh on demand.
func (r *RSVPRepository) CountYesByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, models.RSVPStatusYes).
		Count(&count).Error
	if err != nil {
		configslog.Log.Error("RSVPRepository.CountYesByEvent: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// CountByEvent counts all attendance records for an event.
func (r *RSVPRepository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.RSVP{}).Where("event_id = ?", eventID).Count(&count).Error
	if err != nil {
		configslog.Log.Error("RSVPRepository.CountByEvent: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// DeleteByEvent removes every RSVP referencing the event. Runs before the
// event row itself is deleted.
func (r *RSVPRepository) DeleteByEvent(ctx context.Context, eventID uint) (int64, error) {
	if eventID == 0 {
		return 0, nil
	}
	result := r.getDB(ctx).Where("event_id = ?", eventID).Delete(&models.RSVP{})
	if result.Error != nil {
		configslog.Log.Error("RSVPRepository.DeleteByEvent: DB error", zap.Uint("eventID", eventID), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByEventIDs removes RSVPs for a set of events (seed refresh).
func (r *RSVPRepository) DeleteByEventIDs(ctx context.Context, eventIDs []uint) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	result := r.getDB(ctx).Where("event_id IN ?", eventIDs).Delete(&models.RSVP{})
	if result.Error != nil {
		configslog.Log.Error("RSVPRepository.DeleteByEventIDs: DB error", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteAll wipes the rsvps table. Only the full reset calls this.
func (r *RSVPRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.getDB(ctx).Where("1 = 1").Delete(&models.RSVP{})
	if result.Error != nil {
		configslog.Log.Error("RSVPRepository.DeleteAll: DB error", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ IRSVPRepository = (*RSVPRepository)(nil)
