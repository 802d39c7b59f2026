// Package store defines the record store the Readlog services run against.
//
// Every collection supports insert-one, filtered select, update-by-id and
// delete-by-id. Implementations return errors and never panic; a missing
// record is ErrNotFound and a uniqueness violation is ErrAlreadyExists.
package store

import (
	"context"

	"github.com/readlog/readlog-server/internal/domain"
)

// BookFilter selects books. Zero-valued fields do not constrain the query.
type BookFilter struct {
	OwnerID string
	// OwnerIDs restricts to a set of owners. A non-nil empty slice matches nothing.
	OwnerIDs []string
	// TitleContains is a case-insensitive substring match on the title.
	TitleContains string
	Status        domain.Status
}

// TBRFilter selects to-be-read entries. Zero-valued fields do not constrain the query.
type TBRFilter struct {
	OwnerID       string
	OwnerIDs      []string
	TitleContains string
}

// ReviewFilter selects reviews. Zero-valued fields do not constrain the query.
type ReviewFilter struct {
	OwnerID string
	BookID  string
}

// BookStore persists the active book collection.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
}

// TBRStore persists to-be-read entries.
type TBRStore interface {
	CreateTBREntry(ctx context.Context, entry *domain.TBREntry) error
	GetTBREntry(ctx context.Context, id string) (*domain.TBREntry, error)
	ListTBREntries(ctx context.Context, filter TBRFilter) ([]*domain.TBREntry, error)
	UpdateTBREntry(ctx context.Context, entry *domain.TBREntry) error
	DeleteTBREntry(ctx context.Context, id string) error
}

// ReviewStore persists reviews. A book has at most one review.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetReviewForBook(ctx context.Context, bookID string) (*domain.Review, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id string) error
}

// ProfileStore persists public profiles.
type ProfileStore interface {
	CreateUserProfile(ctx context.Context, profile *domain.UserProfile) error
	GetUserProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetUserProfileByUsername(ctx context.Context, username string) (*domain.UserProfile, error)
	// ListUserProfiles returns the profiles for ids ordered by username.
	// Unknown ids are skipped.
	ListUserProfiles(ctx context.Context, userIDs []string) ([]*domain.UserProfile, error)
	UpdateUserProfile(ctx context.Context, profile *domain.UserProfile) error
}

// FollowStore persists the follow relation.
type FollowStore interface {
	CreateFollow(ctx context.Context, follow *domain.Follow) error
	DeleteFollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	// ListFollowedIDs returns who followerID follows, oldest follow first.
	ListFollowedIDs(ctx context.Context, followerID string) ([]string, error)
	// ListFollowerIDs returns who follows followedID, oldest follow first.
	ListFollowerIDs(ctx context.Context, followedID string) ([]string, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// Store is the full record store.
type Store interface {
	BookStore
	TBRStore
	ReviewStore
	ProfileStore
	FollowStore
	UserStore

	Close() error
}
