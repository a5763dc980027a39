package models

import "time"

// Post is a user post that can be voted on.
type Post struct {
	ID      int       `db:"id" json:"id"`
	UserID  int       `db:"user_id" json:"user_id"`
	Title   string    `db:"title" json:"title"`
	Content string    `db:"content" json:"content"`
	SentAt  time.Time `db:"sent_at" json:"sent_at"`

	Votes []PostVote `json:"votes,omitempty"`
}

// PostVote is a single up or down vote by a user on a post.
type PostVote struct {
	ID         int  `db:"id" json:"id"`
	PostID     int  `db:"post_id" json:"post_id"`
	UserID     int  `db:"user_id" json:"user_id"`
	IsPositive bool `db:"is_positive" json:"is_positive"`
}

// VoteTally is the aggregate recomputed from the vote collection.
type VoteTally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Tally counts the post's votes.
func (p Post) Tally() VoteTally {
	var t VoteTally
	for _, v := range p.Votes {
		if v.IsPositive {
			t.Positive++
		} else {
			t.Negative++
		}
	}
	return t
}
