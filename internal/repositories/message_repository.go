package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var (
	ErrMessageNotFound   = errors.New("message not found")
	ErrSeenStateNotFound = errors.New("seen state not found")
)

// MessageRepository defines interactions for chat messages and their
// per-recipient seen state.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	ListChatMessages(ctx context.Context, chatID int) ([]models.Message, error)
	CreateSeenState(ctx context.Context, messageID int, recipientID int, seen bool) (int, error)
	MarkSeen(ctx context.Context, seenStateID int) error
	ListUnseenForUserInChat(ctx context.Context, userID int, chatID int) ([]models.UnseenMessage, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a chat message.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (chat_id, sender_id, content) VALUES ($1, $2, $3)
        RETURNING id, chat_id, sender_id, content, sent_at`, chatID, senderID, content).
		StructScan(&msg)
	return msg, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT id, chat_id, sender_id, content, sent_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// ListChatMessages returns the chat's messages oldest first.
func (r *MessageRepo) ListChatMessages(ctx context.Context, chatID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, chat_id, sender_id, content, sent_at
        FROM messages WHERE chat_id=$1 ORDER BY sent_at ASC`, chatID)
	return msgs, err
}

// CreateSeenState stores the seen flag of one recipient for one message.
func (r *MessageRepo) CreateSeenState(ctx context.Context, messageID int, recipientID int, seen bool) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `INSERT INTO message_statuses (message_id, user_id, is_seen) VALUES ($1, $2, $3)
        RETURNING id`, messageID, recipientID, seen).Scan(&id)
	return id, err
}

// MarkSeen flips a seen-state row to seen. The flag never goes back.
func (r *MessageRepo) MarkSeen(ctx context.Context, seenStateID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE message_statuses SET is_seen = TRUE WHERE id=$1`, seenStateID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSeenStateNotFound
	}
	return nil
}

// ListUnseenForUserInChat returns the chat messages the user has not seen yet,
// paired with the seen-state rows to flip, oldest first.
func (r *MessageRepo) ListUnseenForUserInChat(ctx context.Context, userID int, chatID int) ([]models.UnseenMessage, error) {
	query := `SELECT m.id, m.chat_id, m.sender_id, m.content, m.sent_at, ms.id AS seen_state_id
        FROM messages m
        JOIN message_statuses ms ON ms.message_id = m.id
        WHERE m.chat_id=$1 AND ms.user_id=$2 AND ms.is_seen = FALSE
        ORDER BY m.sent_at ASC`
	rows, err := r.db.QueryxContext(ctx, query, chatID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.UnseenMessage
	for rows.Next() {
		var row struct {
			models.Message
			SeenStateID int `db:"seen_state_id"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		result = append(result, models.UnseenMessage{Message: row.Message, SeenStateID: row.SeenStateID})
	}
	return result, rows.Err()
}
