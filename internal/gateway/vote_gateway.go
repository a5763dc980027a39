package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// VoteGateway is the real-time entry point for post voting. Each call is a
// single read-modify-write reconciliation; concurrent calls for the same
// (user, post) pair are not serialized.
type VoteGateway struct {
	posts  repositories.PostRepository
	pusher Pusher
	logger *zap.SugaredLogger
}

// NewVoteGateway builds the gateway.
func NewVoteGateway(posts repositories.PostRepository, pusher Pusher, logger *zap.SugaredLogger) *VoteGateway {
	return &VoteGateway{posts: posts, pusher: pusher, logger: logger}
}

// UpdatePostVote applies one vote action and broadcasts the recomputed tally
// to every connected client. An existing vote of the same polarity is removed
// (toggle off); an opposite vote is flipped in place; otherwise a vote is
// created. Returns false when the post does not exist.
func (g *VoteGateway) UpdatePostVote(ctx context.Context, userID int, postID int, isPositive bool) (bool, error) {
	post, err := g.posts.GetPostWithVotes(ctx, postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load post: %w", err)
	}

	tally := post.Tally()
	for _, vote := range post.Votes {
		if vote.UserID != userID {
			continue
		}
		if vote.IsPositive == isPositive {
			// toggle off
			if err := g.posts.DeleteVote(ctx, vote.ID); err != nil {
				return false, fmt.Errorf("delete vote: %w", err)
			}
			if isPositive {
				tally.Positive--
			} else {
				tally.Negative--
			}
			g.broadcast(postID, tally)
			return true, nil
		}
		// flip, not two independent events
		if err := g.posts.UpdateVote(ctx, vote.ID, isPositive); err != nil {
			return false, fmt.Errorf("update vote: %w", err)
		}
		if isPositive {
			tally.Positive++
			tally.Negative--
		} else {
			tally.Positive--
			tally.Negative++
		}
		g.broadcast(postID, tally)
		return true, nil
	}

	if _, err := g.posts.CreateVote(ctx, postID, userID, isPositive); err != nil {
		return false, fmt.Errorf("create vote: %w", err)
	}
	if isPositive {
		tally.Positive++
	} else {
		tally.Negative++
	}
	g.broadcast(postID, tally)
	return true, nil
}

func (g *VoteGateway) broadcast(postID int, tally models.VoteTally) {
	g.pusher.BroadcastAll(models.Event{
		Type: models.EventPostVotesChanged,
		PostVotes: &models.PostVotesPush{
			PostID:   postID,
			Positive: tally.Positive,
			Negative: tally.Negative,
		},
	})
}
