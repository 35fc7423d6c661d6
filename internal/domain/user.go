package domain

import (
	"database/sql"
	"time"
)

// User roles. Role is fixed at creation and never changes afterwards.
const (
	RoleCitizen    = "citizen"
	RoleWardAdmin  = "ward_admin"
	RoleGovernment = "government"
)

// User is an authenticated identity. Citizens and ward admins belong
// to a ward; government accounts are ward-less.
type User struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         string         `json:"role" db:"role"`
	WardID       sql.NullInt64  `json:"ward_id" db:"ward_id"`
	Address      sql.NullString `json:"address,omitempty" db:"address"`
	Phone        sql.NullString `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// IsWardAdmin reports whether the user may act on ward resources.
// "admin" is accepted for rows created before the role rename.
func (u *User) IsWardAdmin() bool {
	return u.Role == RoleWardAdmin || u.Role == "admin"
}

// IsGovernment reports whether the user may provision ward admins.
func (u *User) IsGovernment() bool {
	return u.Role == RoleGovernment
}
