package model

import (
	"time"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Confirmed    bool      `db:"confirmed" json:"confirmed"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
