package domain

import (
	"errors"
	"time"
)

// Role is the closed set of actor roles recognised by the booking system.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleStaff    Role = "Staff"
	RoleCustomer Role = "Customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email is already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
