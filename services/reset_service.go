package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"orbit.events/configs/configsapp"
	"orbit.events/configs/configslog"
	"orbit.events/pkg/catalog"
	"orbit.events/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResetServiceError is the typed error family for reset runs.
type ResetServiceError string

func (e ResetServiceError) Error() string { return string(e) }

const (
	ErrResetInProgress   ResetServiceError = "a reset run is already in progress"
	ErrResetHostUnknown  ResetServiceError = "configured reset host does not exist"
	ErrResetInvalidHost  ResetServiceError = "reset host identity is not configured"
	ErrResetCatalogEmpty ResetServiceError = "default catalog could not be loaded"
)

// ResetResult is the structured report a scheduler can act on without
// parsing prose.
type ResetResult struct {
	OK       bool      `json:"ok"`
	At       time.Time `json:"at"`
	Mode     string    `json:"mode"`
	Removed  int64     `json:"removed"`
	Inserted int       `json:"inserted"`
	Error    string    `json:"error,omitempty"`
}

// IResetService runs the periodic reseed.
type IResetService interface {
	Run(ctx context.Context, mode configsapp.ResetMode) (*ResetResult, error)
}

// ResetService replaces the curated seed catalog on a schedule. Both modes
// delete child rows before parent rows and insert the catalog only after the
// deletion phase, so a retry after a partial failure converges instead of
// double-seeding.
type ResetService struct {
	events    repositories.IEventRepository
	rsvps     repositories.IRSVPRepository
	users     repositories.IUserRepository
	hostEmail string
	seedFile  string

	// Guards overlapping scheduler triggers in-process. Across processes
	// idempotent convergence is the safety net; there is no distributed lock.
	mu sync.Mutex
}

// NewResetService builds the orchestrator from the app config.
func NewResetService(cfg configsapp.Config) *ResetService {
	return &ResetService{
		events:    repositories.NewEventRepository(),
		rsvps:     repositories.NewRSVPRepository(),
		users:     repositories.NewUserRepository(),
		hostEmail: cfg.ResetHostEmail,
		seedFile:  cfg.SeedFile,
	}
}

// NewResetServiceWithDB builds the orchestrator on an explicit connection.
func NewResetServiceWithDB(db *gorm.DB, hostEmail, seedFile string) *ResetService {
	return &ResetService{
		events:    repositories.NewEventRepositoryWithDB(db),
		rsvps:     repositories.NewRSVPRepositoryWithDB(db),
		users:     repositories.NewUserRepositoryWithDB(db),
		hostEmail: hostEmail,
		seedFile:  seedFile,
	}
}

// Run executes one reset in the given mode. Configuration and catalog
// problems abort before any mutation.
func (s *ResetService) Run(ctx context.Context, mode configsapp.ResetMode) (*ResetResult, error) {
	if !s.mu.TryLock() {
		return failed(mode, ErrResetInProgress), ErrResetInProgress
	}
	defer s.mu.Unlock()

	if s.hostEmail == "" {
		return failed(mode, ErrResetInvalidHost), ErrResetInvalidHost
	}
	host, err := s.users.FindByEmail(ctx, s.hostEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return failed(mode, ErrResetHostUnknown), ErrResetHostUnknown
		}
		return failed(mode, err), err
	}

	templates, err := catalog.Load(s.seedFile)
	if err != nil {
		configslog.Log.Error("reset: catalog load failed", zap.String("seedFile", s.seedFile), zap.Error(err))
		return failed(mode, err), err
	}

	var removed int64
	switch mode {
	case configsapp.ResetModeFull:
		removed, err = s.wipeAll(ctx)
	default:
		mode = configsapp.ResetModeRefresh
		removed, err = s.removeSeedEvents(ctx)
	}
	if err != nil {
		return failed(mode, err), err
	}

	seedEvents := catalog.ToEvents(templates, host.ID)
	if err := s.events.InsertBatch(ctx, seedEvents); err != nil {
		return failed(mode, err), err
	}

	result := &ResetResult{
		OK:       true,
		At:       time.Now().UTC(),
		Mode:     string(mode),
		Removed:  removed,
		Inserted: len(seedEvents),
	}
	configslog.SLog.Infow("reset completed",
		"mode", result.Mode, "removed", result.Removed, "inserted", result.Inserted)
	return result, nil
}

// removeSeedEvents deletes the current seed catalog and its RSVPs, leaving
// user-authored events and their RSVPs untouched.
func (s *ResetService) removeSeedEvents(ctx context.Context) (int64, error) {
	seedIDs, err := s.events.FindSeedIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(seedIDs) == 0 {
		return 0, nil
	}
	if _, err := s.rsvps.DeleteByEventIDs(ctx, seedIDs); err != nil {
		return 0, err
	}
	return s.events.DeleteByIDs(ctx, seedIDs)
}

// wipeAll removes every RSVP and every event, seed or not.
func (s *ResetService) wipeAll(ctx context.Context) (int64, error) {
	if _, err := s.rsvps.DeleteAll(ctx); err != nil {
		return 0, err
	}
	return s.events.DeleteAll(ctx)
}

func failed(mode configsapp.ResetMode, err error) *ResetResult {
	return &ResetResult{
		OK:    false,
		At:    time.Now().UTC(),
		Mode:  string(mode),
		Error: err.Error(),
	}
}

var _ IResetService = (*ResetService)(nil)
