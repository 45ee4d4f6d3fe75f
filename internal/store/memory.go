package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"weather-aggregator-api/internal/alerts"
	"weather-aggregator-api/internal/prefs"
)

// MemoryStore is a concurrency-safe in-memory implementation of the
// subscription and history stores. It backs tests and key-less local runs;
// slices keep insertion order so ranking ties stay stable.
type MemoryStore struct {
	mu sync.RWMutex

	normal   []alerts.NormalSubscription
	custom   []alerts.CustomSubscription
	history  []prefs.SearchHistoryEntry
	topList  map[string][]string
	homeLoc  map[string]string
	feedback []prefs.Feedback
	nextID   uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		topList: make(map[string][]string),
		homeLoc: make(map[string]string),
		nextID:  1,
	}
}

// --- alerts.SubscriptionStore ---

func (s *MemoryStore) CreateNormal(_ context.Context, sub alerts.NormalSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.normal {
		if existing.UserID == sub.UserID && existing.Location == sub.Location && existing.AlertKind == sub.AlertKind {
			return alerts.ErrDuplicateSubscription
		}
	}

	sub.ID = s.nextID
	s.nextID++
	sub.CreatedAt = time.Now().UTC()
	s.normal = append(s.normal, sub)
	return nil
}

func (s *MemoryStore) DeleteNormal(_ context.Context, userID, location string, kind int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.normal {
		if existing.UserID == userID && existing.Location == location && existing.AlertKind == kind {
			s.normal = append(s.normal[:i], s.normal[i+1:]...)
			return nil
		}
	}
	return alerts.ErrNoMatch
}

func (s *MemoryStore) CreateCustom(_ context.Context, sub alerts.CustomSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.custom {
		if existing.Key() == sub.Key() {
			return alerts.ErrDuplicateSubscription
		}
	}

	sub.ID = s.nextID
	s.nextID++
	sub.CreatedAt = time.Now().UTC()
	s.custom = append(s.custom, sub)
	return nil
}

func (s *MemoryStore) DeleteCustom(_ context.Context, key alerts.CustomKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.custom {
		if existing.Key() == key {
			s.custom = append(s.custom[:i], s.custom[i+1:]...)
			return nil
		}
	}
	return alerts.ErrNoMatch
}

func (s *MemoryStore) NormalByUser(_ context.Context, userID string) ([]alerts.NormalSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []alerts.NormalSubscription
	for _, sub := range s.normal {
		if sub.UserID == userID {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (s *MemoryStore) CustomByUser(_ context.Context, userID string) ([]alerts.CustomSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []alerts.CustomSubscription
	for _, sub := range s.custom {
		if sub.UserID == userID {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (s *MemoryStore) NormalForLocation(_ context.Context, userID, location string) ([]alerts.NormalSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []alerts.NormalSubscription
	for _, sub := range s.normal {
		if sub.UserID == userID && sub.Location == location {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (s *MemoryStore) CustomForLocation(_ context.Context, userID, location string) ([]alerts.CustomSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []alerts.CustomSubscription
	for _, sub := range s.custom {
		if sub.UserID == userID && sub.Location == location {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (s *MemoryStore) AllNormal(_ context.Context) ([]alerts.NormalSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]alerts.NormalSubscription(nil), s.normal...), nil
}

func (s *MemoryStore) AllCustom(_ context.Context) ([]alerts.CustomSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]alerts.CustomSubscription(nil), s.custom...), nil
}

// --- prefs.HistoryStore ---

func (s *MemoryStore) UpsertSearch(_ context.Context, userID, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].UserID == userID && s.history[i].Location == location {
			s.history[i].SearchCount++
			s.history[i].LastSearched = time.Now().UTC()
			return nil
		}
	}

	s.history = append(s.history, prefs.SearchHistoryEntry{
		ID:           s.nextID,
		UserID:       userID,
		Location:     location,
		SearchCount:  1,
		LastSearched: time.Now().UTC(),
	})
	s.nextID++
	return nil
}

func (s *MemoryStore) TopSearches(_ context.Context, userID string, limit int) ([]prefs.SearchHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []prefs.SearchHistoryEntry
	for _, entry := range s.history {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}

	// Stable sort keeps insertion order for equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SearchCount > entries[j].SearchCount
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *MemoryStore) SavePreference(_ context.Context, userID string, topSearches []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topList[userID] = append([]string(nil), topSearches...)
	return nil
}

func (s *MemoryStore) GetPreference(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top, ok := s.topList[userID]
	if !ok {
		return nil, prefs.ErrNotFound
	}
	return append([]string(nil), top...), nil
}

func (s *MemoryStore) SetUserLocation(_ context.Context, userID, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.homeLoc[userID] = location
	return nil
}

func (s *MemoryStore) GetUserLocation(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.homeLoc[userID]
	if !ok {
		return "", prefs.ErrNotFound
	}
	return loc, nil
}

func (s *MemoryStore) AddFeedback(_ context.Context, fb prefs.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb.ID = s.nextID
	s.nextID++
	fb.CreatedAt = time.Now().UTC()
	s.feedback = append(s.feedback, fb)
	return nil
}
