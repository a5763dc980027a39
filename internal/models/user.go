package models

import "time"

// User is the local profile of an identity-provider account.
// Presence state (connection handle, active chat) is runtime-only and
// lives in the presence directory, never on this row.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Friendship is an unordered user pair stored with the lower id first.
type Friendship struct {
	User1ID   int       `db:"user1_id" json:"user1_id"`
	User2ID   int       `db:"user2_id" json:"user2_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
