package models

import "time"

// UserRole distinguishes the two account kinds.
type UserRole string

const (
	RoleAdmin UserRole = "Admin"
	RoleJudge UserRole = "Judge"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
