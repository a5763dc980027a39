package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-service/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyFriends       = errors.New("users are already friends")
)

const uniqueViolation = "23505"

// NotificationRepository persists notifications and friendships.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
	GetNotification(ctx context.Context, id int) (models.Notification, error)
	DeleteNotification(ctx context.Context, id int) error
	ListForUser(ctx context.Context, userID int) ([]models.Notification, error)
	CountForUser(ctx context.Context, userID int) (int, error)
	CreateFriendship(ctx context.Context, userA int, userB int) error
	RemoveFriendship(ctx context.Context, userA int, userB int) error
	AreFriends(ctx context.Context, userA int, userB int) (bool, error)
	ListFriendIDs(ctx context.Context, userID int) ([]int, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateNotification appends a notification and returns its id.
func (r *NotificationRepo) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `INSERT INTO notifications (kind, from_user_id, to_user_id, message_id)
        VALUES ($1, $2, $3, $4) RETURNING id`, n.Kind, n.FromUserID, n.ToUserID, n.MessageID).Scan(&id)
	return id, err
}

// GetNotification fetches a notification by id.
func (r *NotificationRepo) GetNotification(ctx context.Context, id int) (models.Notification, error) {
	var n models.Notification
	err := r.db.GetContext(ctx, &n, `SELECT id, kind, from_user_id, to_user_id, message_id, sent_at
        FROM notifications WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotificationNotFound
	}
	return n, err
}

// DeleteNotification removes a notification.
func (r *NotificationRepo) DeleteNotification(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications, `SELECT id, kind, from_user_id, to_user_id, message_id, sent_at
        FROM notifications WHERE to_user_id=$1 ORDER BY sent_at DESC`, userID)
	return notifications, err
}

// CountForUser returns the user's unread-notification total.
func (r *NotificationRepo) CountForUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE to_user_id=$1`, userID)
	return count, err
}

// normalizePair orders an unordered user pair with the lower id first so the
// uniqueness constraint holds regardless of which side is stored first.
func normalizePair(userA, userB int) (int, int) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}

// CreateFriendship records the unordered pair. A concurrent accept from the
// other side hits the primary key and maps to ErrAlreadyFriends.
func (r *NotificationRepo) CreateFriendship(ctx context.Context, userA int, userB int) error {
	if userA == userB {
		return errors.New("cannot befriend yourself")
	}
	user1, user2 := normalizePair(userA, userB)
	_, err := r.db.ExecContext(ctx, `INSERT INTO friendships (user1_id, user2_id) VALUES ($1, $2)`, user1, user2)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrAlreadyFriends
	}
	return err
}

// RemoveFriendship deletes the unordered pair.
func (r *NotificationRepo) RemoveFriendship(ctx context.Context, userA int, userB int) error {
	user1, user2 := normalizePair(userA, userB)
	_, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE user1_id=$1 AND user2_id=$2`, user1, user2)
	return err
}

// AreFriends checks the durable friendship record, not a cached collection.
func (r *NotificationRepo) AreFriends(ctx context.Context, userA int, userB int) (bool, error) {
	user1, user2 := normalizePair(userA, userB)
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM friendships WHERE user1_id=$1 AND user2_id=$2)`, user1, user2)
	return exists, err
}

// ListFriendIDs returns the ids of the user's friends.
func (r *NotificationRepo) ListFriendIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT CASE WHEN user1_id=$1 THEN user2_id ELSE user1_id END
        FROM friendships WHERE user1_id=$1 OR user2_id=$1`, userID)
	return ids, err
}
