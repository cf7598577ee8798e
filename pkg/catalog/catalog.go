// Package catalog handles the default-event catalog file: the ordered set of
// templates the reset job reseeds from, and the portable export of live
// events back into the same format.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"orbit.events/models"
)

// DefaultSeedFile is where the catalog lives unless SEED_FILE overrides it.
const DefaultSeedFile = "seed/default_events.json"

// EventTemplate is one catalog entry. Host fields are filled on export only,
// so a catalog stays portable across store instances: the importing side
// binds templates to its own configured host.
type EventTemplate struct {
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	Details       string    `json:"details"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	Image         string    `json:"image,omitempty"`
	HostEmail     string    `json:"hostEmail,omitempty"`
	HostName      string    `json:"hostName,omitempty"`
}

// Load reads and decodes the catalog file, preserving order.
func Load(path string) ([]EventTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("seed file not found at %s", path)
		}
		return nil, err
	}
	var templates []EventTemplate
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("seed file %s is not valid JSON: %w", path, err)
	}
	return templates, nil
}

// ToEvents binds templates to the configured host and tags them as seed
// rows. Seed rows skip temporal validation on purpose: the catalog is a
// rotating exhibit, not a live schedule.
func ToEvents(templates []EventTemplate, hostID uint) []models.Event {
	events := make([]models.Event, 0, len(templates))
	for _, t := range templates {
		image := t.Image
		if image == "" {
			image = models.DefaultEventImage
		}
		events = append(events, models.Event{
			Title:    t.Title,
			Category: models.EventCategory(t.Category),
			StartsAt: t.StartDateTime,
			EndsAt:   t.EndDateTime,
			Location: t.Location,
			Details:  t.Details,
			Image:    image,
			HostID:   hostID,
			IsSeed:   true,
		})
	}
	return events
}

// FromEvents serializes events back into catalog form, substituting the
// host's email and display name for the host reference.
func FromEvents(events []models.Event) []EventTemplate {
	templates := make([]EventTemplate, 0, len(events))
	for _, e := range events {
		templates = append(templates, EventTemplate{
			Title:         e.Title,
			Category:      string(e.Category),
			Location:      e.Location,
			Details:       e.Details,
			StartDateTime: e.StartsAt.UTC(),
			EndDateTime:   e.EndsAt.UTC(),
			Image:         e.Image,
			HostEmail:     e.Host.Email,
			HostName:      e.Host.FullName(),
		})
	}
	return templates
}

// Write stores templates as indented JSON. When the target exists and force
// is false, a timestamped snapshot is written next to it instead and its
// path is returned.
func Write(path string, templates []EventTemplate, force bool) (string, error) {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	target := path
	if _, statErr := os.Stat(path); statErr == nil && !force {
		stamp := fmt.Sprintf(".%d.json", time.Now().UnixMilli())
		target = strings.TrimSuffix(path, ".json") + stamp
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}
