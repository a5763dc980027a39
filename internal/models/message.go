package models

import "time"

// Message is a chat message.
type Message struct {
	ID       int       `db:"id" json:"id"`
	ChatID   int       `db:"chat_id" json:"chat_id"`
	SenderID int       `db:"sender_id" json:"sender_id"`
	Content  string    `db:"content" json:"content"`
	SentAt   time.Time `db:"sent_at" json:"sent_at"`
}

// SeenState is the per-recipient seen flag of a message. Every message has
// exactly one row per chat member other than its author. The flag only
// transitions false to true.
type SeenState struct {
	ID        int  `db:"id" json:"id"`
	MessageID int  `db:"message_id" json:"message_id"`
	UserID    int  `db:"user_id" json:"user_id"`
	IsSeen    bool `db:"is_seen" json:"is_seen"`
}

// UnseenMessage pairs an unseen message with the seen-state row to flip.
type UnseenMessage struct {
	Message     Message `json:"message"`
	SeenStateID int     `json:"seen_state_id"`
}
