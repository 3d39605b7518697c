package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phn" json:"phn"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"role"`
	Blocked      bool      `db:"blocked" json:"blocked"`
	Active       bool      `db:"active" json:"active"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phn"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Blocked  *bool   `json:"blocked"`
	Active   *bool   `json:"active"`
	IsAdmin  *bool   `json:"is_admin"`
	Password *string `json:"password"`
}
