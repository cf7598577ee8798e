package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is an account identity. The credential is stored hashed only.
type User struct {
	BaseModel
	FirstName    string `gorm:"type:varchar(100);not null"`
	LastName     string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`

	// Derived relations, loaded on demand. The foreign keys on events and
	// rsvps are the source of truth; nothing is denormalized here.
	Events []Event `gorm:"foreignKey:HostID"`
	RSVPs  []RSVP  `gorm:"foreignKey:UserID"`
}

// BeforeSave keeps the unique email index case-insensitive by normalizing
// before every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// FullName joins first and last name for display and catalog export.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
