package models

import "time"

// NotificationKind discriminates the four notification events.
type NotificationKind string

const (
	NotificationNewFriendRequest      NotificationKind = "new_friend_request"
	NotificationFriendRequestAccepted NotificationKind = "friend_request_accepted"
	NotificationFriendRequestRejected NotificationKind = "friend_request_rejected"
	NotificationNewMessage            NotificationKind = "new_message"
)

// Notification is created by the gateway on the triggering action and
// deleted when the recipient consumes or dismisses it. Never updated in place.
type Notification struct {
	ID         int              `db:"id" json:"id"`
	Kind       NotificationKind `db:"kind" json:"kind"`
	FromUserID int              `db:"from_user_id" json:"from_user_id"`
	ToUserID   int              `db:"to_user_id" json:"to_user_id"`
	MessageID  *int             `db:"message_id" json:"message_id,omitempty"`
	SentAt     time.Time        `db:"sent_at" json:"sent_at"`
}
