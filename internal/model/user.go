package model

import "time"

type User struct {
	ID           int        `json:"user_id" db:"user_id"`
	FirstName    string     `json:"firstname" db:"firstname"`
	LastName     string     `json:"lastname" db:"lastname"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at" db:"updated_at"`
}
