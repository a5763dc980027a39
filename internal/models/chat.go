package models

import "time"

// Chat is a multi-member conversation.
type Chat struct {
	ID        int       `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatMember links a user to a chat.
type ChatMember struct {
	ChatID   int       `db:"chat_id" json:"chat_id"`
	UserID   int       `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// ChatSummary provides an API-friendly view of a chat for a user.
type ChatSummary struct {
	ChatID        int        `json:"chat_id"`
	MemberIDs     []int      `json:"member_ids"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	Created       time.Time  `json:"created_at"`
}
