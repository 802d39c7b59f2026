package sqlite

import (
	"context"

	"github.com/readlog/readlog-server/internal/domain"
)

// profileColumns is the ordered list of columns selected in profile queries.
// Must match the scan order in scanProfile.
const profileColumns = `user_id, username, display_name, avatar_url, tagline, accent_color, created_at, updated_at`

func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.UserProfile, error) {
	var (
		p                    domain.UserProfile
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&p.UserID,
		&p.Username,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Tagline,
		&p.AccentColor,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateUserProfile inserts the profile for an existing user.
func (s *Store) CreateUserProfile(ctx context.Context, profile *domain.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID,
		profile.Username,
		profile.DisplayName,
		profile.AvatarURL,
		profile.Tagline,
		profile.AccentColor,
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	return mapWriteError(err)
}

// GetUserProfile retrieves a user profile by user ID.
// Returns store.ErrNotFound if the profile does not exist.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, userID)

	p, err := scanProfile(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return p, nil
}

// GetUserProfileByUsername retrieves a profile by username, ignoring case.
func (s *Store) GetUserProfileByUsername(ctx context.Context, username string) (*domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE username = ?`, username)

	p, err := scanProfile(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return p, nil
}

// ListUserProfiles retrieves profiles for multiple user IDs ordered by username.
// Missing profiles are omitted.
func (s *Store) ListUserProfiles(ctx context.Context, userIDs []string) ([]*domain.UserProfile, error) {
	var w whereBuilder
	w.in("user_id", userIDs)
	if w.none || userIDs == nil {
		return []*domain.UserProfile{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles`+w.String()+` ORDER BY username COLLATE NOCASE`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []*domain.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateUserProfile replaces the editable profile fields.
// The username is owned by the account and is not touched here.
func (s *Store) UpdateUserProfile(ctx context.Context, profile *domain.UserProfile) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE user_profiles SET
			display_name = ?, avatar_url = ?, tagline = ?, accent_color = ?, updated_at = ?
		WHERE user_id = ?`,
		profile.DisplayName,
		profile.AvatarURL,
		profile.Tagline,
		profile.AccentColor,
		formatTime(profile.UpdatedAt),
		profile.UserID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return expectOneRow(result)
}
