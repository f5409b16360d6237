package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleGateStaff Role = "GATE_STAFF"
)

// User is a staff account: admins, event organizers, and gate/box-office
// operators. Ticket holders are not users; they are customer fields on a
// booking.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'GATE_STAFF'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleAdmin), string(RoleOrganizer), string(RoleGateStaff):
		return true
	default:
		return false
	}
}

// FullName returns the display name used in scan audit records.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
