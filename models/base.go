package models

import "time"

// BaseModel is embedded by every entity. Rows are hard-deleted: the reset
// protocol and the RSVP uniqueness index both need deleted rows gone, not
// tombstoned.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
