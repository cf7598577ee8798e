package models

// RSVPStatus is a user's attendance intent for an event.
type RSVPStatus string

const (
	RSVPStatusYes   RSVPStatus = "YES"
	RSVPStatusNo    RSVPStatus = "NO"
	RSVPStatusMaybe RSVPStatus = "MAYBE"
)

// RSVP records one user's intent against one event. The composite unique
// index is the authority for the at-most-one-per-(user,event) invariant;
// resubmission overwrites the status in place.
type RSVP struct {
	BaseModel
	UserID  uint       `gorm:"not null;uniqueIndex:idx_rsvp_user_event"`
	EventID uint       `gorm:"not null;uniqueIndex:idx_rsvp_user_event;index"`
	Status  RSVPStatus `gorm:"type:varchar(10);not null"`

	User  User  `gorm:"foreignKey:UserID"`
	Event Event `gorm:"foreignKey:EventID"`
}

// ValidRSVPStatus reports whether s is one of YES/NO/MAYBE.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPStatusYes, RSVPStatusNo, RSVPStatusMaybe:
		return true
	}
	return false
}
