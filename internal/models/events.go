package models

import "time"

// Event type values pushed by the server.
const (
	EventReceiveMessage          = "receive_message"
	EventUpdateSeenStatuses      = "update_seen_statuses"
	EventUpdateNotificationCount = "update_notification_count"
	EventPostVotesChanged        = "post_votes_changed"
)

// Event is broadcasted through websockets. Exactly one payload field is set,
// matching Type.
type Event struct {
	Type              string            `json:"type"`
	Message           *MessagePush      `json:"message,omitempty"`
	SeenStatuses      *SeenStatusesPush `json:"seen_statuses,omitempty"`
	NotificationCount *int              `json:"notification_count,omitempty"`
	PostVotes         *PostVotesPush    `json:"post_votes,omitempty"`
}

// MessagePush is the live delivery of a new chat message to co-present members.
type MessagePush struct {
	MessageID     int       `json:"message_id"`
	SenderName    string    `json:"sender_name"`
	Content       string    `json:"content"`
	SentAt        time.Time `json:"sent_at"`
	SeenBySummary string    `json:"seen_by"`
	ColorTag      string    `json:"color_tag,omitempty"`
}

// SeenStatusesPush tells co-present members that a user caught up on messages.
type SeenStatusesPush struct {
	MarkerName string `json:"marker_name"`
	MessageIDs []int  `json:"message_ids"`
}

// PostVotesPush carries the recomputed tally of a post.
type PostVotesPush struct {
	PostID   int `json:"post_id"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// NewNotificationCountEvent builds an update_notification_count event.
func NewNotificationCountEvent(count int) Event {
	return Event{Type: EventUpdateNotificationCount, NotificationCount: &count}
}
