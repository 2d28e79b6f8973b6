package model

import "time"

// Role is a user's authorization level.
type Role string

const (
	// RoleUser is a regular account.
	RoleUser Role = "USER"
	// RoleAdmin is an administrator.
	RoleAdmin Role = "ADMIN"
)

// User is the authenticated account.
type User struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ID        int64     `json:"id"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	Type      string `json:"type"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}

// LoginRequest holds credentials for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,fintrack_email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest holds the sign-up form. ConfirmPassword is checked
// locally and never sent.
type RegisterRequest struct {
	Name            string `json:"name" validate:"notblank,max=100"`
	Email           string `json:"email" validate:"required,fintrack_email"`
	Password        string `json:"password" validate:"fintrack_password"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// ProfileUpdate is a partial update of the current user.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,fintrack_email"`
}
