package models

import "time"

// EventCategory is the fixed category enumeration.
type EventCategory string

const (
	CategoryAstronomy EventCategory = "Astronomy"
	CategoryScience   EventCategory = "Science"
	CategorySpace     EventCategory = "Space"
	CategoryEducation EventCategory = "Education"
	CategoryOther     EventCategory = "Other"
)

// DefaultEventImage is the placeholder used when a host opts out of
// supplying an image.
const DefaultEventImage = "/images/no_image.png"

// Event is owned by exactly one host. IsSeed partitions the curated default
// catalog from user-authored events; seed rows are exempt from the temporal
// validation applied to user submissions, since the catalog rotates on a
// schedule rather than tracking live dates.
type Event struct {
	BaseModel
	Title    string        `gorm:"type:varchar(255);not null"`
	Category EventCategory `gorm:"type:varchar(50);not null;index"`
	StartsAt time.Time     `gorm:"not null;index"`
	EndsAt   time.Time     `gorm:"not null"`
	Location string        `gorm:"type:varchar(255);not null"`
	Details  string        `gorm:"type:text;not null"`
	Image    string        `gorm:"type:varchar(500);not null"`
	HostID   uint          `gorm:"not null;index"`
	IsSeed   bool          `gorm:"not null;default:false;index"`

	Host  User   `gorm:"foreignKey:HostID"`
	RSVPs []RSVP `gorm:"foreignKey:EventID"`
}

// ValidCategory reports whether c is one of the enumerated categories.
func ValidCategory(c EventCategory) bool {
	switch c {
	case CategoryAstronomy, CategoryScience, CategorySpace, CategoryEducation, CategoryOther:
		return true
	}
	return false
}
