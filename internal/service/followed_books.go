package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/normalize"
	"github.com/readlog/readlog-server/internal/store"
)

// FollowedBooksStore is the slice of the record store the followed-books
// search reads.
type FollowedBooksStore interface {
	ListFollowedIDs(ctx context.Context, followerID string) ([]string, error)
	ListBooks(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error)
	ListTBREntries(ctx context.Context, filter store.TBRFilter) ([]*domain.TBREntry, error)
	ListUserProfiles(ctx context.Context, userIDs []string) ([]*domain.UserProfile, error)
}

// FollowedBooksService finds which followed users have a given book on
// their shelves or in their to-be-read queue.
type FollowedBooksService struct {
	store  FollowedBooksStore
	logger *slog.Logger
}

// NewFollowedBooksService creates a new followed-books service.
func NewFollowedBooksService(store FollowedBooksStore, logger *slog.Logger) *FollowedBooksService {
	return &FollowedBooksService{store: store, logger: logger}
}

// ownedMatch is a matched row before its owner's profile is resolved.
type ownedMatch struct {
	ownerID string
	status  domain.Status
	title   string
	author  string
}

// Search returns one match per (followed user, book) whose title contains
// title, and whose author contains author when one is given. Both checks
// ignore case. The result is never nil.
//
// Store failures never surface as errors: a failed book or TBR query
// contributes no rows while the other still does, and a failed profile
// lookup empties the whole result.
func (s *FollowedBooksService) Search(ctx context.Context, userID, title, author string) []domain.FollowedBookMatch {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if userID == "" || title == "" {
		return []domain.FollowedBookMatch{}
	}

	log := s.logger.With("user_id", userID)

	followed, err := s.store.ListFollowedIDs(ctx, userID)
	if err != nil {
		log.Warn("followed books: loading follows failed", "stage", "follows", "error", err)
		return []domain.FollowedBookMatch{}
	}
	if len(followed) == 0 {
		return []domain.FollowedBookMatch{}
	}

	books, err := s.store.ListBooks(ctx, store.BookFilter{OwnerIDs: followed, TitleContains: title})
	if err != nil {
		log.Warn("followed books: book query failed", "stage", "books", "error", err)
		books = nil
	}

	entries, err := s.store.ListTBREntries(ctx, store.TBRFilter{OwnerIDs: followed, TitleContains: title})
	if err != nil {
		log.Warn("followed books: tbr query failed", "stage", "tbr", "error", err)
		entries = nil
	}

	// Books first, then TBR, so each owner's group keeps that order.
	byOwner := make(map[string][]ownedMatch)
	for _, b := range books {
		if author != "" && !normalize.Contains(b.Author, author) {
			continue
		}
		byOwner[b.OwnerID] = append(byOwner[b.OwnerID], ownedMatch{
			ownerID: b.OwnerID,
			status:  domain.NormalizeStatus(string(b.Status)),
			title:   b.Title,
			author:  b.Author,
		})
	}
	for _, e := range entries {
		if author != "" && !normalize.Contains(e.Author, author) {
			continue
		}
		byOwner[e.OwnerID] = append(byOwner[e.OwnerID], ownedMatch{
			ownerID: e.OwnerID,
			status:  domain.StatusTBR,
			title:   e.Title,
			author:  e.Author,
		})
	}
	if len(byOwner) == 0 {
		return []domain.FollowedBookMatch{}
	}

	owners := make([]string, 0, len(byOwner))
	for ownerID := range byOwner {
		owners = append(owners, ownerID)
	}
	slices.Sort(owners)

	profiles, err := s.store.ListUserProfiles(ctx, owners)
	if err != nil {
		log.Warn("followed books: profile lookup failed", "stage", "profiles", "error", err)
		return []domain.FollowedBookMatch{}
	}

	out := make([]domain.FollowedBookMatch, 0, len(books)+len(entries))
	for _, p := range profiles {
		for _, m := range byOwner[p.UserID] {
			out = append(out, domain.FollowedBookMatch{
				UserID:      p.UserID,
				Username:    p.Username,
				DisplayName: p.Name(),
				AvatarURL:   p.AvatarURL,
				Status:      m.status,
				Title:       m.title,
				Author:      m.author,
			})
		}
	}

	log.Debug("followed books search", "title", title, "author", author, "matches", len(out))
	return out
}

// FollowedBooksSearch holds the state a client sees for one user's
// followed-books search: whether a search is running and the last result.
// It is safe for concurrent use.
type FollowedBooksSearch struct {
	svc *FollowedBooksService

	mu       sync.Mutex
	inFlight int
	started  uint64
	stored   uint64
	results  []domain.FollowedBookMatch
}

// NewFollowedBooksSearch creates an empty search holder over svc.
func NewFollowedBooksSearch(svc *FollowedBooksService) *FollowedBooksSearch {
	return &FollowedBooksSearch{svc: svc, results: []domain.FollowedBookMatch{}}
}

// Run performs a search and returns its matches. Loading reports true
// while any search is running. When searches overlap, only the most
// recently started one that has finished replaces the stored result.
func (f *FollowedBooksSearch) Run(ctx context.Context, userID, title, author string) []domain.FollowedBookMatch {
	f.mu.Lock()
	f.inFlight++
	f.started++
	gen := f.started
	f.mu.Unlock()

	results := f.svc.Search(ctx, userID, title, author)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if gen > f.stored {
		f.stored = gen
		f.results = results
	}
	return slices.Clone(results)
}

// Loading reports whether a search is in flight.
func (f *FollowedBooksSearch) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight > 0
}

// Results returns a copy of the last result set.
func (f *FollowedBooksSearch) Results() []domain.FollowedBookMatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.results)
}

// Clear empties the result set. It never touches the store.
func (f *FollowedBooksSearch) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = []domain.FollowedBookMatch{}
}

// FollowedBooksSearches hands out one FollowedBooksSearch per user, keeping
// the most recently used ones.
type FollowedBooksSearches struct {
	svc      *FollowedBooksService
	mu       sync.Mutex
	sessions *lru.Cache[string, *FollowedBooksSearch]
}

// NewFollowedBooksSearches creates a registry holding up to size users.
func NewFollowedBooksSearches(svc *FollowedBooksService, size int) (*FollowedBooksSearches, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, *FollowedBooksSearch](size)
	if err != nil {
		return nil, err
	}
	return &FollowedBooksSearches{svc: svc, sessions: cache}, nil
}

// For returns userID's search holder, creating it on first use.
func (r *FollowedBooksSearches) For(userID string) *FollowedBooksSearch {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions.Get(userID); ok {
		return s
	}
	s := NewFollowedBooksSearch(r.svc)
	r.sessions.Add(userID, s)
	return s
}
