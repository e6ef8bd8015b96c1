package entity

import "time"

type Role string

const (
	RoleTenant Role = "tenant"
	RoleOwner  Role = "owner"
	// RoleUnset marks a freshly registered account that has not picked a role
	// yet. Role selection happens exactly once.
	RoleUnset Role = ""
)

func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleOwner
}

type User struct {
	ID        string
	Email     string
	Name      string
	Password  string // hashed
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
