package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"orbit.events/configs/configsapp"
	"orbit.events/models"
	"orbit.events/pkg/catalog"

	"gorm.io/gorm"
)

func writeTestCatalog(t *testing.T, titles ...string) string {
	t.Helper()
	templates := make([]catalog.EventTemplate, 0, len(titles))
	for i, title := range titles {
		templates = append(templates, catalog.EventTemplate{
			Title:         title,
			Category:      string(models.CategoryAstronomy),
			Location:      "Central Park, NY",
			Details:       "catalog entry",
			StartDateTime: time.Date(2024, 10, 15+i, 23, 0, 0, 0, time.UTC),
			EndDateTime:   time.Date(2024, 10, 16+i, 2, 0, 0, 0, time.UTC),
		})
	}
	path := filepath.Join(t.TempDir(), "default_events.json")
	if _, err := catalog.Write(path, templates, true); err != nil {
		t.Fatalf("writing test catalog: %v", err)
	}
	return path
}

func seedEventTitles(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var titles []string
	if err := db.Model(&models.Event{}).Where("is_seed = ?", true).Order("id asc").Pluck("title", &titles).Error; err != nil {
		t.Fatal(err)
	}
	return titles
}

// countOrphanRSVPs counts rsvps whose event no longer exists.
func countOrphanRSVPs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	err := db.Model(&models.RSVP{}).
		Where("event_id NOT IN (?)", db.Model(&models.Event{}).Select("id")).
		Count(&count).Error
	if err != nil {
		t.Fatal(err)
	}
	return count
}

func TestRefreshReplacesSeedAndSparesUserEvents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	host := createTestUser(t, db, "system@orbit.events")
	author := createTestUser(t, db, "author@example.com")
	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")

	// Seed event A with two RSVPs, user event B with one.
	seedEvent := createTestEvent(t, db, host.ID, "Old Seed", true)
	userEvent := createTestEvent(t, db, author.ID, "User Event", false)
	createTestRSVP(t, db, a.ID, seedEvent.ID, models.RSVPStatusYes)
	createTestRSVP(t, db, b.ID, seedEvent.ID, models.RSVPStatusMaybe)
	userRSVP := createTestRSVP(t, db, a.ID, userEvent.ID, models.RSVPStatusYes)

	seedFile := writeTestCatalog(t, "New Seed")
	svc := NewResetServiceWithDB(db, "system@orbit.events", seedFile)

	result, err := svc.Run(ctx, configsapp.ResetModeRefresh)
	if err != nil {
		t.Fatalf("Run(refresh): %v", err)
	}
	if !result.OK {
		t.Fatalf("result.OK = false, error: %s", result.Error)
	}
	if result.Mode != "refresh" || result.Removed != 1 || result.Inserted != 1 {
		t.Errorf("result = %+v, want mode=refresh removed=1 inserted=1", result)
	}

	// Old seed event and its RSVPs are gone.
	if got := countRows(t, db, &models.Event{}, "id = ?", seedEvent.ID); got != 0 {
		t.Error("old seed event still present")
	}
	if got := countRows(t, db, &models.RSVP{}, "event_id = ?", seedEvent.ID); got != 0 {
		t.Error("old seed RSVPs still present")
	}

	// User event and its RSVP are untouched.
	if got := countRows(t, db, &models.Event{}, "id = ?", userEvent.ID); got != 1 {
		t.Error("user event was removed by refresh")
	}
	if got := countRows(t, db, &models.RSVP{}, "id = ?", userRSVP.ID); got != 1 {
		t.Error("user RSVP was removed by refresh")
	}

	titles := seedEventTitles(t, db)
	if len(titles) != 1 || titles[0] != "New Seed" {
		t.Errorf("seed titles = %v, want [New Seed]", titles)
	}
	var reseeded models.Event
	if err := db.Where("title = ?", "New Seed").First(&reseeded).Error; err != nil {
		t.Fatal(err)
	}
	if reseeded.HostID != host.ID || !reseeded.IsSeed {
		t.Errorf("reseeded event host=%d isSeed=%v, want host=%d isSeed=true", reseeded.HostID, reseeded.IsSeed, host.ID)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	host := createTestUser(t, db, "system@orbit.events")
	guest := createTestUser(t, db, "guest@example.com")
	seedEvent := createTestEvent(t, db, host.ID, "Old Seed", true)
	createTestRSVP(t, db, guest.ID, seedEvent.ID, models.RSVPStatusYes)

	seedFile := writeTestCatalog(t, "Seed One", "Seed Two")
	svc := NewResetServiceWithDB(db, "system@orbit.events", seedFile)

	if _, err := svc.Run(ctx, configsapp.ResetModeRefresh); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstTitles := seedEventTitles(t, db)

	result, err := svc.Run(ctx, configsapp.ResetModeRefresh)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Removed != 2 || result.Inserted != 2 {
		t.Errorf("second run removed=%d inserted=%d, want 2/2", result.Removed, result.Inserted)
	}

	secondTitles := seedEventTitles(t, db)
	if len(firstTitles) != len(secondTitles) {
		t.Fatalf("seed set size changed: %v vs %v", firstTitles, secondTitles)
	}
	for i := range firstTitles {
		if firstTitles[i] != secondTitles[i] {
			t.Errorf("seed set diverged: %v vs %v", firstTitles, secondTitles)
			break
		}
	}
	if got := countOrphanRSVPs(t, db); got != 0 {
		t.Errorf("orphan rsvps = %d, want 0", got)
	}
}

func TestFullResetIsDestructive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	host := createTestUser(t, db, "system@orbit.events")
	author := createTestUser(t, db, "author@example.com")
	guest := createTestUser(t, db, "guest@example.com")

	seedEvent := createTestEvent(t, db, host.ID, "Old Seed", true)
	userEvent := createTestEvent(t, db, author.ID, "User Event", false)
	createTestRSVP(t, db, guest.ID, seedEvent.ID, models.RSVPStatusYes)
	createTestRSVP(t, db, guest.ID, userEvent.ID, models.RSVPStatusYes)

	seedFile := writeTestCatalog(t, "Seed One", "Seed Two", "Seed Three")
	svc := NewResetServiceWithDB(db, "system@orbit.events", seedFile)

	result, err := svc.Run(ctx, configsapp.ResetModeFull)
	if err != nil {
		t.Fatalf("Run(full): %v", err)
	}
	if result.Mode != "full" || !result.OK {
		t.Errorf("result = %+v, want ok full", result)
	}

	if got := countRows(t, db, &models.RSVP{}, ""); got != 0 {
		t.Errorf("rsvp rows = %d, want 0 after full reset", got)
	}
	if got := countRows(t, db, &models.Event{}, "is_seed = ?", false); got != 0 {
		t.Errorf("user events = %d, want 0 after full reset", got)
	}
	titles := seedEventTitles(t, db)
	if len(titles) != 3 {
		t.Errorf("seed events = %v, want exactly the 3-entry catalog", titles)
	}

	// Users themselves survive.
	if got := countRows(t, db, &models.User{}, ""); got != 3 {
		t.Errorf("user rows = %d, want 3", got)
	}
}

func TestResetAbortsBeforeMutationOnConfigError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	host := createTestUser(t, db, "system@orbit.events")
	seedEvent := createTestEvent(t, db, host.ID, "Old Seed", true)
	_ = seedEvent

	// Missing host identity.
	svc := NewResetServiceWithDB(db, "", writeTestCatalog(t, "Seed"))
	result, err := svc.Run(ctx, configsapp.ResetModeRefresh)
	if !errors.Is(err, ErrResetInvalidHost) {
		t.Fatalf("err = %v, want ErrResetInvalidHost", err)
	}
	if result.OK {
		t.Error("result.OK = true on config error")
	}

	// Unknown host identity.
	svc = NewResetServiceWithDB(db, "nobody@example.com", writeTestCatalog(t, "Seed"))
	if _, err := svc.Run(ctx, configsapp.ResetModeRefresh); !errors.Is(err, ErrResetHostUnknown) {
		t.Fatalf("err = %v, want ErrResetHostUnknown", err)
	}

	// Unreadable catalog aborts before the deletion phase.
	svc = NewResetServiceWithDB(db, "system@orbit.events", filepath.Join(t.TempDir(), "missing.json"))
	if _, err := svc.Run(ctx, configsapp.ResetModeRefresh); err == nil {
		t.Fatal("expected error for missing catalog")
	}

	// Nothing was mutated by any failed run.
	if got := countRows(t, db, &models.Event{}, ""); got != 1 {
		t.Errorf("event rows = %d, want 1 (untouched)", got)
	}
}
