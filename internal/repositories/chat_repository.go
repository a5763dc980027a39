package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository abstracts chat and membership persistence.
type ChatRepository interface {
	CreateChat(ctx context.Context) (models.Chat, error)
	GetChat(ctx context.Context, chatID int) (models.Chat, error)
	DeleteChat(ctx context.Context, chatID int) error
	AddMember(ctx context.Context, chatID int, userID int) error
	RemoveMember(ctx context.Context, chatID int, userID int) error
	IsMember(ctx context.Context, chatID int, userID int) (bool, error)
	ListMemberIDs(ctx context.Context, chatID int) ([]int, error)
	ListChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateChat creates an empty chat.
func (r *ChatRepo) CreateChat(ctx context.Context) (models.Chat, error) {
	var chat models.Chat
	err := r.db.QueryRowxContext(ctx, `INSERT INTO chats DEFAULT VALUES RETURNING id, created_at`).
		StructScan(&chat)
	return chat, err
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT id, created_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// DeleteChat removes the chat; messages and memberships cascade.
func (r *ChatRepo) DeleteChat(ctx context.Context, chatID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id=$1`, chatID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrChatNotFound
	}
	return nil
}

// AddMember adds a user to the chat, idempotently.
func (r *ChatRepo) AddMember(ctx context.Context, chatID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)
        ON CONFLICT (chat_id, user_id) DO NOTHING`, chatID, userID)
	return err
}

// RemoveMember removes a user from the chat.
func (r *ChatRepo) RemoveMember(ctx context.Context, chatID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_members WHERE chat_id=$1 AND user_id=$2`, chatID, userID)
	return err
}

// IsMember checks whether a user belongs to the chat.
func (r *ChatRepo) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListMemberIDs returns the ids of every chat member.
func (r *ChatRepo) ListMemberIDs(ctx context.Context, chatID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM chat_members WHERE chat_id=$1 ORDER BY joined_at ASC`, chatID)
	return ids, err
}

// ListChatsForUser returns the user's chats ordered by most recent message.
func (r *ChatRepo) ListChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	query := `SELECT c.id, c.created_at, MAX(m.sent_at) AS last_message_at
        FROM chats c
        JOIN chat_members cm ON cm.chat_id = c.id AND cm.user_id = $1
        LEFT JOIN messages m ON m.chat_id = c.id
        GROUP BY c.id, c.created_at
        ORDER BY MAX(m.sent_at) DESC NULLS LAST, c.created_at DESC`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChatSummary
	for rows.Next() {
		var row struct {
			ID            int          `db:"id"`
			CreatedAt     sql.NullTime `db:"created_at"`
			LastMessageAt sql.NullTime `db:"last_message_at"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		summary := models.ChatSummary{ChatID: row.ID, Created: row.CreatedAt.Time}
		if row.LastMessageAt.Valid {
			t := row.LastMessageAt.Time
			summary.LastMessageAt = &t
		}
		members, err := r.ListMemberIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		summary.MemberIDs = members
		result = append(result, summary)
	}
	return result, rows.Err()
}
