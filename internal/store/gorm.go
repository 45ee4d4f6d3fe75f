package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weather-aggregator-api/internal/alerts"
	"weather-aggregator-api/internal/prefs"
)

// GormStore persists subscriptions and search history in SQLite. Uniqueness
// is enforced by the composite unique indexes declared on the models, so
// concurrent subscribe races resolve to a clean duplicate rejection.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm opens (or creates) the SQLite database at path and migrates the
// schema.
func OpenGorm(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&alerts.NormalSubscription{},
		&alerts.CustomSubscription{},
		&prefs.SearchHistoryEntry{},
		&prefs.UserPreference{},
		&prefs.UserLocation{},
		&prefs.Feedback{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormStore{db: db}, nil
}

// --- alerts.SubscriptionStore ---

func (s *GormStore) CreateNormal(ctx context.Context, sub alerts.NormalSubscription) error {
	err := s.db.WithContext(ctx).Create(&sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return alerts.ErrDuplicateSubscription
	}
	return err
}

func (s *GormStore) DeleteNormal(ctx context.Context, userID, location string, kind int) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND location = ? AND alert_kind = ?", userID, location, kind).
		Delete(&alerts.NormalSubscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return alerts.ErrNoMatch
	}
	return nil
}

func (s *GormStore) CreateCustom(ctx context.Context, sub alerts.CustomSubscription) error {
	err := s.db.WithContext(ctx).Create(&sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return alerts.ErrDuplicateSubscription
	}
	return err
}

func (s *GormStore) DeleteCustom(ctx context.Context, key alerts.CustomKey) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND location = ? AND condition = ? AND operator = ? AND threshold = ?",
			key.UserID, key.Location, key.Condition, key.Operator, key.Threshold).
		Delete(&alerts.CustomSubscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return alerts.ErrNoMatch
	}
	return nil
}

func (s *GormStore) NormalByUser(ctx context.Context, userID string) ([]alerts.NormalSubscription, error) {
	var subs []alerts.NormalSubscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&subs).Error
	return subs, err
}

func (s *GormStore) CustomByUser(ctx context.Context, userID string) ([]alerts.CustomSubscription, error) {
	var subs []alerts.CustomSubscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&subs).Error
	return subs, err
}

func (s *GormStore) NormalForLocation(ctx context.Context, userID, location string) ([]alerts.NormalSubscription, error) {
	var subs []alerts.NormalSubscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND location = ?", userID, location).
		Order("id").Find(&subs).Error
	return subs, err
}

func (s *GormStore) CustomForLocation(ctx context.Context, userID, location string) ([]alerts.CustomSubscription, error) {
	var subs []alerts.CustomSubscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND location = ?", userID, location).
		Order("id").Find(&subs).Error
	return subs, err
}

func (s *GormStore) AllNormal(ctx context.Context) ([]alerts.NormalSubscription, error) {
	var subs []alerts.NormalSubscription
	err := s.db.WithContext(ctx).Order("id").Find(&subs).Error
	return subs, err
}

func (s *GormStore) AllCustom(ctx context.Context) ([]alerts.CustomSubscription, error) {
	var subs []alerts.CustomSubscription
	err := s.db.WithContext(ctx).Order("id").Find(&subs).Error
	return subs, err
}

// --- prefs.HistoryStore ---

func (s *GormStore) UpsertSearch(ctx context.Context, userID, location string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry prefs.SearchHistoryEntry
		err := tx.Where("user_id = ? AND location = ?", userID, location).First(&entry).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&prefs.SearchHistoryEntry{
				UserID:       userID,
				Location:     location,
				SearchCount:  1,
				LastSearched: time.Now().UTC(),
			}).Error
		case err != nil:
			return err
		default:
			return tx.Model(&entry).Updates(map[string]interface{}{
				"search_count":  entry.SearchCount + 1,
				"last_searched": time.Now().UTC(),
			}).Error
		}
	})
}

func (s *GormStore) TopSearches(ctx context.Context, userID string, limit int) ([]prefs.SearchHistoryEntry, error) {
	var entries []prefs.SearchHistoryEntry
	// Secondary order by id makes count ties deterministic (insertion order).
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("search_count DESC, id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *GormStore) SavePreference(ctx context.Context, userID string, topSearches []string) error {
	encoded, err := json.Marshal(topSearches)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pref prefs.UserPreference
		err := tx.Where("user_id = ?", userID).First(&pref).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&prefs.UserPreference{
				UserID:      userID,
				TopSearches: string(encoded),
			}).Error
		case err != nil:
			return err
		default:
			return tx.Model(&pref).Update("top_searches", string(encoded)).Error
		}
	})
}

func (s *GormStore) GetPreference(ctx context.Context, userID string) ([]string, error) {
	var pref prefs.UserPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prefs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var top []string
	if err := json.Unmarshal([]byte(pref.TopSearches), &top); err != nil {
		return nil, err
	}
	return top, nil
}

func (s *GormStore) SetUserLocation(ctx context.Context, userID, location string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loc prefs.UserLocation
		err := tx.Where("user_id = ?", userID).First(&loc).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&prefs.UserLocation{UserID: userID, Location: location}).Error
		case err != nil:
			return err
		default:
			return tx.Model(&loc).Update("location", location).Error
		}
	})
}

func (s *GormStore) GetUserLocation(ctx context.Context, userID string) (string, error) {
	var loc prefs.UserLocation
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", prefs.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return loc.Location, nil
}

func (s *GormStore) AddFeedback(ctx context.Context, fb prefs.Feedback) error {
	return s.db.WithContext(ctx).Create(&fb).Error
}
