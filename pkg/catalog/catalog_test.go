package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"orbit.events/models"
)

func sampleTemplates() []EventTemplate {
	return []EventTemplate{
		{
			Title:         "Star Gazing at the Park",
			Category:      "Astronomy",
			Location:      "Central Park, NY",
			Details:       "Telescopes provided.",
			StartDateTime: time.Date(2024, 10, 15, 23, 0, 0, 0, time.UTC),
			EndDateTime:   time.Date(2024, 10, 16, 23, 59, 0, 0, time.UTC),
			Image:         "/images/star_gazing.jpg",
		},
		{
			Title:         "Life on Mars",
			Category:      "Space",
			Location:      "Central Park, NY",
			Details:       "Latest findings.",
			StartDateTime: time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC),
			EndDateTime:   time.Date(2024, 11, 20, 16, 0, 0, 0, time.UTC),
		},
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if _, err := Write(path, sampleTemplates(), true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d templates, want 2", len(loaded))
	}
	if loaded[0].Title != "Star Gazing at the Park" || loaded[1].Title != "Life on Mars" {
		t.Errorf("order not preserved: %q, %q", loaded[0].Title, loaded[1].Title)
	}
	if !loaded[0].StartDateTime.Equal(time.Date(2024, 10, 15, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("start time = %v", loaded[0].StartDateTime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "seed file not found") {
		t.Fatalf("err = %v, want seed-file-not-found", err)
	}
}

func TestToEventsTagsSeedAndHost(t *testing.T) {
	events := ToEvents(sampleTemplates(), 42)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	for _, e := range events {
		if !e.IsSeed {
			t.Errorf("%s: IsSeed = false, want true", e.Title)
		}
		if e.HostID != 42 {
			t.Errorf("%s: HostID = %d, want 42", e.Title, e.HostID)
		}
	}
	// Missing image falls back to the placeholder.
	if events[1].Image != models.DefaultEventImage {
		t.Errorf("image = %q, want default placeholder", events[1].Image)
	}
}

func TestFromEventsSubstitutesHostIdentity(t *testing.T) {
	events := ToEvents(sampleTemplates(), 42)
	events[0].Host = models.User{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}

	templates := FromEvents(events[:1])
	if templates[0].HostEmail != "jane@example.com" {
		t.Errorf("hostEmail = %q", templates[0].HostEmail)
	}
	if templates[0].HostName != "Jane Doe" {
		t.Errorf("hostName = %q", templates[0].HostName)
	}
}

func TestWriteSnapshotInsteadOfOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if _, err := Write(path, sampleTemplates(), true); err != nil {
		t.Fatal(err)
	}

	target, err := Write(path, sampleTemplates()[:1], false)
	if err != nil {
		t.Fatalf("Write without force: %v", err)
	}
	if target == path {
		t.Fatal("existing file was overwritten without force")
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	// The original keeps both entries.
	original, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(original) != 2 {
		t.Errorf("original mutated, %d entries", len(original))
	}

	// With force the target is replaced.
	target, err = Write(path, sampleTemplates()[:1], true)
	if err != nil || target != path {
		t.Fatalf("Write with force: target=%q err=%v", target, err)
	}
	replaced, _ := Load(path)
	if len(replaced) != 1 {
		t.Errorf("forced write kept %d entries, want 1", len(replaced))
	}
}
