package domain

import "time"

// UserRole enumerates account roles.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleManager    UserRole = "manager"
	UserRoleTechnician UserRole = "technician"
	UserRoleClient     UserRole = "client"
)

// User holds the identity a technician or client links to.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name for the user.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}
