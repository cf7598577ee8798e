package services

import (
	"testing"
	"time"

	"orbit.events/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. One open
// connection, so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.RSVP{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, hostID uint, title string, isSeed bool) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:    title,
		Category: models.CategoryAstronomy,
		StartsAt: time.Now().Add(48 * time.Hour),
		EndsAt:   time.Now().Add(50 * time.Hour),
		Location: "Central Park, NY",
		Details:  "details",
		Image:    models.DefaultEventImage,
		HostID:   hostID,
		IsSeed:   isSeed,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("creating test event %s: %v", title, err)
	}
	return event
}

func createTestRSVP(t *testing.T, db *gorm.DB, userID, eventID uint, status models.RSVPStatus) *models.RSVP {
	t.Helper()
	rsvp := &models.RSVP{UserID: userID, EventID: eventID, Status: status}
	if err := db.Create(rsvp).Error; err != nil {
		t.Fatalf("creating test rsvp: %v", err)
	}
	return rsvp
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&count).Error; err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return count
}

func validInput(start, end time.Time) EventInput {
	return EventInput{
		Title:    "Star Party",
		Category: models.CategoryAstronomy,
		StartsAt: start,
		EndsAt:   end,
		Location: "Central Park, NY",
		Details:  "Bring a telescope.",
		ImageRef: "/images/star_party.jpg",
	}
}
