package prefs

import "time"

// SearchHistoryEntry counts how often a user has searched a location.
// One row per (user, location).
type SearchHistoryEntry struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UserID       string    `gorm:"size:100;uniqueIndex:uniq_search_history" json:"user_id"`
	Location     string    `gorm:"size:255;uniqueIndex:uniq_search_history" json:"location"`
	SearchCount  int       `json:"search_count"`
	LastSearched time.Time `json:"last_searched"`
}

// UserPreference is the derived snapshot of a user's most-searched
// locations. It is fully recomputed from the search history on every
// logged search, never edited directly.
type UserPreference struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	UserID      string `gorm:"size:100;uniqueIndex" json:"user_id"`
	TopSearches string `gorm:"type:text" json:"-"` // JSON-encoded ordered list
}

// UserLocation is a user's explicitly set home location.
type UserLocation struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:100;uniqueIndex" json:"user_id"`
	Location  string    `gorm:"size:255" json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Feedback is a user rating with an optional comment.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:100;index" json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
