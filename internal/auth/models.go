package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse privilege level attached to every user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// User is an authenticated principal. EmployeeCode optionally links the
// account to an Employee record in the HR module.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         Role      `db:"role" json:"role"`
	Department   string    `db:"department" json:"department"`
	EmployeeCode *string   `db:"employee_code" json:"employee_code,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor identifies the principal invoking an operation, as extracted from the
// access token.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// CanModerate reports whether the actor may approve, reject or validate
// workflow records. Plain employees cannot decide on requests, including
// their own.
func (a Actor) CanModerate() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// TokenPair bundles the access and refresh tokens returned on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
