package repositories

import (
	"context"
	"errors"

	"orbit.events/configs/configsdatabase"
	"orbit.events/configs/configslog"
	"orbit.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEventRepository is the store boundary for events.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDWithHost(ctx context.Context, id uint) (*models.Event, error)
	FindAll(ctx context.Context) ([]models.Event, error)
	FindAllWithHost(ctx context.Context, seedOnly bool) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	FindSeedIDs(ctx context.Context) ([]uint, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, events []models.Event) error
}

// EventRepository implements IEventRepository on GORM.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a repository on the shared connection.
func NewEventRepository() IEventRepository {
	return &EventRepository{db: configsdatabase.GetDB()}
}

// NewEventRepositoryWithDB builds a repository on an explicit connection.
func NewEventRepositoryWithDB(db *gorm.DB) IEventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create inserts an event. Host existence is enforced by the FK at write time.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.HostID == 0 {
		return errors.New("cannot create event without a host")
	}
	err := r.getDB(ctx).Create(event).Error
	if err != nil {
		configslog.Log.Error("EventRepository.Create: DB error", zap.Error(err))
	}
	return err
}

// FindByID loads an event by primary key.
func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// FindByIDWithHost loads an event and its host for the detail view.
func (r *EventRepository) FindByIDWithHost(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).Preload("Host").First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByIDWithHost: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// FindAll returns every event ordered by category, then start time, the
// order the listing page groups by.
func (r *EventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.getDB(ctx).Order("category asc, starts_at asc").Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindAll: DB error", zap.Error(err))
		return nil, err
	}
	return events, nil
}

// FindAllWithHost returns events with hosts preloaded, optionally restricted
// to the seed catalog. Used by the export tool.
func (r *EventRepository) FindAllWithHost(ctx context.Context, seedOnly bool) ([]models.Event, error) {
	var events []models.Event
	query := r.getDB(ctx).Preload("Host").Order("starts_at asc")
	if seedOnly {
		query = query.Where("is_seed = ?", true)
	}
	if err := query.Find(&events).Error; err != nil {
		configslog.Log.Error("EventRepository.FindAllWithHost: DB error", zap.Error(err))
		return nil, err
	}
	return events, nil
}

// Update persists the full event row.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return errors.New("cannot update event without an ID")
	}
	err := r.getDB(ctx).Save(event).Error
	if err != nil {
		configslog.Log.Error("EventRepository.Update: DB error", zap.Uint("id", event.ID), zap.Error(err))
	}
	return err
}

// Delete removes a single event row. Dependent RSVPs must already be gone.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	result := r.getDB(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		configslog.Log.Error("EventRepository.Delete: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindSeedIDs returns the ids of all catalog-tagged events.
func (r *EventRepository) FindSeedIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&models.Event{}).Where("is_seed = ?", true).Pluck("id", &ids).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindSeedIDs: DB error", zap.Error(err))
		return nil, err
	}
	return ids, nil
}

// DeleteByIDs removes the given events and reports how many rows went away.
func (r *EventRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.getDB(ctx).Where("id IN ?", ids).Delete(&models.Event{})
	if result.Error != nil {
		configslog.Log.Error("EventRepository.DeleteByIDs: DB error", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteAll wipes the events table. Only the full reset calls this.
func (r *EventRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.getDB(ctx).Where("1 = 1").Delete(&models.Event{})
	if result.Error != nil {
		configslog.Log.Error("EventRepository.DeleteAll: DB error", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// InsertBatch bulk-inserts catalog events.
func (r *EventRepository) InsertBatch(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	err := r.getDB(ctx).Create(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.InsertBatch: DB error", zap.Int("count", len(events)), zap.Error(err))
	}
	return err
}

var _ IEventRepository = (*EventRepository)(nil)
