package sqlite

import (
	"context"

	"github.com/readlog/readlog-server/internal/domain"
)

// CreateFollow records that follow.FollowerID follows follow.FollowedID.
// Returns store.ErrAlreadyExists if the relation is already there.
func (s *Store) CreateFollow(ctx context.Context, follow *domain.Follow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)`,
		follow.FollowerID, follow.FollowedID, formatTime(follow.CreatedAt))
	return mapWriteError(err)
}

// DeleteFollow removes a follow relation.
// Returns store.ErrNotFound if it did not exist.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// IsFollowing reports whether followerID follows followedID.
func (s *Store) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).Scan(&n)
	return n > 0, err
}

// ListFollowedIDs returns the accounts followerID follows.
func (s *Store) ListFollowedIDs(ctx context.Context, followerID string) ([]string, error) {
	return s.listIDs(ctx,
		`SELECT followed_id FROM follows WHERE follower_id = ? ORDER BY created_at, followed_id`, followerID)
}

// ListFollowerIDs returns the accounts following followedID.
func (s *Store) ListFollowerIDs(ctx context.Context, followedID string) ([]string, error) {
	return s.listIDs(ctx,
		`SELECT follower_id FROM follows WHERE followed_id = ? ORDER BY created_at, follower_id`, followedID)
}

func (s *Store) listIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
