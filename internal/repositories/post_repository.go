package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrVoteNotFound = errors.New("vote not found")
)

// PostRepository persists posts and their votes.
type PostRepository interface {
	CreatePost(ctx context.Context, userID int, title string, content string) (models.Post, error)
	UpdatePost(ctx context.Context, postID int, title string, content string) error
	DeletePost(ctx context.Context, postID int) error
	GetPostWithVotes(ctx context.Context, postID int) (models.Post, error)
	ListPostsWithVotes(ctx context.Context) ([]models.Post, error)
	CreateVote(ctx context.Context, postID int, userID int, isPositive bool) (int, error)
	UpdateVote(ctx context.Context, voteID int, isPositive bool) error
	DeleteVote(ctx context.Context, voteID int) error
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// CreatePost stores a post.
func (r *PostRepo) CreatePost(ctx context.Context, userID int, title string, content string) (models.Post, error) {
	var post models.Post
	err := r.db.QueryRowxContext(ctx, `INSERT INTO posts (user_id, title, content) VALUES ($1, $2, $3)
        RETURNING id, user_id, title, content, sent_at`, userID, title, content).
		StructScan(&post)
	return post, err
}

// UpdatePost rewrites a post's title and content. Edits bump sent_at so the
// post resurfaces at the top of the feed.
func (r *PostRepo) UpdatePost(ctx context.Context, postID int, title string, content string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE posts SET title=$2, content=$3, sent_at=NOW() WHERE id=$1`, postID, title, content)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post; its votes go with it via the cascade.
func (r *PostRepo) DeletePost(ctx context.Context, postID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, postID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GetPostWithVotes loads a post together with its full vote collection.
func (r *PostRepo) GetPostWithVotes(ctx context.Context, postID int) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post, `SELECT id, user_id, title, content, sent_at FROM posts WHERE id=$1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	err = r.db.SelectContext(ctx, &post.Votes, `SELECT id, post_id, user_id, is_positive FROM post_votes WHERE post_id=$1`, postID)
	return post, err
}

// ListPostsWithVotes returns all posts newest first, votes included.
func (r *PostRepo) ListPostsWithVotes(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, `SELECT id, user_id, title, content, sent_at FROM posts ORDER BY sent_at DESC`); err != nil {
		return nil, err
	}
	var votes []models.PostVote
	if err := r.db.SelectContext(ctx, &votes, `SELECT id, post_id, user_id, is_positive FROM post_votes`); err != nil {
		return nil, err
	}
	votesByPost := map[int][]models.PostVote{}
	for _, v := range votes {
		votesByPost[v.PostID] = append(votesByPost[v.PostID], v)
	}
	for i := range posts {
		posts[i].Votes = votesByPost[posts[i].ID]
	}
	return posts, nil
}

// CreateVote stores a new vote.
func (r *PostRepo) CreateVote(ctx context.Context, postID int, userID int, isPositive bool) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `INSERT INTO post_votes (post_id, user_id, is_positive) VALUES ($1, $2, $3)
        RETURNING id`, postID, userID, isPositive).Scan(&id)
	return id, err
}

// UpdateVote flips an existing vote's polarity in place.
func (r *PostRepo) UpdateVote(ctx context.Context, voteID int, isPositive bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE post_votes SET is_positive=$2 WHERE id=$1`, voteID, isPositive)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// DeleteVote removes a vote (toggle off).
func (r *PostRepo) DeleteVote(ctx context.Context, voteID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM post_votes WHERE id=$1`, voteID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrVoteNotFound
	}
	return nil
}
