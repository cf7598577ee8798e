package services

import (
	"context"
	"errors"
	"testing"

	"orbit.events/models"

	"golang.org/x/crypto/bcrypt"
)

func registerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "correct-horse-battery",
	}
}

func TestRegisterStoresHashedCredential(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserServiceWithDB(db)

	user, err := svc.Register(context.Background(), registerInput("jane@example.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash == "correct-horse-battery" {
		t.Fatal("credential stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse-battery")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserServiceWithDB(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("jane@example.com")); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, registerInput("Jane@Example.COM")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if got := countRows(t, db, &models.User{}, ""); got != 1 {
		t.Errorf("user rows = %d, want 1", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserServiceWithDB(db)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = "" }},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := registerInput("jane@example.com")
			tc.mutate(&input)
			if _, err := svc.Register(ctx, input); !errors.Is(err, ErrUserInvalidInput) {
				t.Fatalf("err = %v, want ErrUserInvalidInput", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserServiceWithDB(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("jane@example.com")); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(ctx, "JANE@example.com", "correct-horse-battery"); err != nil {
		t.Errorf("Authenticate with correct credential: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "jane@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGetProfileDerivedRelations(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserServiceWithDB(db)
	ctx := context.Background()

	host := createTestUser(t, db, "host@example.com")
	user := createTestUser(t, db, "jane@example.com")
	owned := createTestEvent(t, db, user.ID, "My Event", false)
	attended := createTestEvent(t, db, host.ID, "Their Event", false)
	createTestRSVP(t, db, user.ID, attended.ID, models.RSVPStatusYes)

	profile, err := svc.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(profile.Events) != 1 || profile.Events[0].ID != owned.ID {
		t.Errorf("owned events = %v, want [%d]", profile.Events, owned.ID)
	}
	if len(profile.RSVPs) != 1 || profile.RSVPs[0].Event.ID != attended.ID {
		t.Errorf("rsvps not derived with their events")
	}

	// Deleting the owned event makes it vanish from the profile with no
	// back-reference bookkeeping.
	eventSvc := NewEventServiceWithDB(db)
	if err := eventSvc.DeleteEvent(ctx, user.ID, owned.ID); err != nil {
		t.Fatal(err)
	}
	profile, err = svc.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Events) != 0 {
		t.Errorf("owned events after delete = %d, want 0", len(profile.Events))
	}
}
