package prefs

import (
	"context"
	"errors"
	"fmt"
)

// topSearchLimit caps the derived default-location list.
const topSearchLimit = 5

// ErrNoDefaultLocation signals that no location was provided and the user
// has no search history to fall back on. Callers should prompt the user to
// set a location explicitly.
var ErrNoDefaultLocation = errors.New("no default location available")

// ErrNotFound is returned by store lookups that have no row for the user.
var ErrNotFound = errors.New("not found")

// HistoryStore is the persistence contract for search history, derived
// preferences, home locations, and feedback. UpsertSearch must perform an
// atomic increment-or-create per (user, location) row.
type HistoryStore interface {
	UpsertSearch(ctx context.Context, userID, location string) error
	// TopSearches returns up to limit entries ordered by search count
	// descending; ties keep storage order so repeated calls with unchanged
	// counts produce the same order.
	TopSearches(ctx context.Context, userID string, limit int) ([]SearchHistoryEntry, error)
	SavePreference(ctx context.Context, userID string, topSearches []string) error
	GetPreference(ctx context.Context, userID string) ([]string, error)

	SetUserLocation(ctx context.Context, userID, location string) error
	GetUserLocation(ctx context.Context, userID string) (string, error)

	AddFeedback(ctx context.Context, fb Feedback) error
}

// Ranker maintains per-user search-frequency history and derives the
// ranked default-location list consumed by the weather endpoints.
type Ranker struct {
	store HistoryStore
}

func NewRanker(store HistoryStore) *Ranker {
	return &Ranker{store: store}
}

// LogSearch records one resolved query for the user and recomputes the
// derived top-searches snapshot from the full history.
func (r *Ranker) LogSearch(ctx context.Context, userID, location string) error {
	if err := r.store.UpsertSearch(ctx, userID, location); err != nil {
		return err
	}

	top, err := r.store.TopSearches(ctx, userID, topSearchLimit)
	if err != nil {
		return err
	}
	locations := make([]string, 0, len(top))
	for _, entry := range top {
		locations = append(locations, entry.Location)
	}
	return r.store.SavePreference(ctx, userID, locations)
}

// TopSearches returns the user's ranked location list, most searched first.
func (r *Ranker) TopSearches(ctx context.Context, userID string) ([]string, error) {
	top, err := r.store.TopSearches(ctx, userID, topSearchLimit)
	if err != nil {
		return nil, err
	}
	locations := make([]string, 0, len(top))
	for _, entry := range top {
		locations = append(locations, entry.Location)
	}
	return locations, nil
}

// DefaultLocation returns provided when non-empty, else the user's top
// searched location, else ErrNoDefaultLocation.
func (r *Ranker) DefaultLocation(ctx context.Context, userID, provided string) (string, error) {
	if provided != "" {
		return provided, nil
	}
	top, err := r.TopSearches(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(top) == 0 {
		return "", ErrNoDefaultLocation
	}
	return top[0], nil
}

// SetHomeLocation upserts the user's explicit home location.
func (r *Ranker) SetHomeLocation(ctx context.Context, userID, location string) (string, error) {
	if err := r.store.SetUserLocation(ctx, userID, location); err != nil {
		return "", err
	}
	return fmt.Sprintf("User %s's location updated to %s.", userID, location), nil
}

// HomeLocation returns the user's explicit home location, or ErrNotFound.
func (r *Ranker) HomeLocation(ctx context.Context, userID string) (string, error) {
	return r.store.GetUserLocation(ctx, userID)
}

// SubmitFeedback validates and stores a rating with an optional comment.
func (r *Ranker) SubmitFeedback(ctx context.Context, userID string, rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", fmt.Errorf("rating must be between 1 and 5")
	}
	err := r.store.AddFeedback(ctx, Feedback{
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Feedback from user %s recorded.", userID), nil
}
