package alerts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"weather-aggregator-api/internal/weather"
)

var (
	// ErrDuplicateSubscription is returned when an identical subscription
	// already exists; the original row is left untouched.
	ErrDuplicateSubscription = errors.New("subscription already exists")

	// ErrNoMatch is returned when a cancel target does not exist; it is
	// distinct from a successful cancellation.
	ErrNoMatch = errors.New("no matching subscription")
)

// SubscriptionStore is the persistence contract for subscriptions. Create
// operations must enforce the uniqueness tuples atomically and return
// ErrDuplicateSubscription on conflict; Delete operations must return
// ErrNoMatch when the exact key is absent.
type SubscriptionStore interface {
	CreateNormal(ctx context.Context, sub NormalSubscription) error
	DeleteNormal(ctx context.Context, userID, location string, kind int) error
	CreateCustom(ctx context.Context, sub CustomSubscription) error
	DeleteCustom(ctx context.Context, key CustomKey) error

	NormalByUser(ctx context.Context, userID string) ([]NormalSubscription, error)
	CustomByUser(ctx context.Context, userID string) ([]CustomSubscription, error)
	NormalForLocation(ctx context.Context, userID, location string) ([]NormalSubscription, error)
	CustomForLocation(ctx context.Context, userID, location string) ([]CustomSubscription, error)

	AllNormal(ctx context.Context) ([]NormalSubscription, error)
	AllCustom(ctx context.Context) ([]CustomSubscription, error)
}

// Service enforces catalog validation and uniqueness semantics on top of a
// SubscriptionStore.
type Service struct {
	store SubscriptionStore
}

func NewService(store SubscriptionStore) *Service {
	return &Service{store: store}
}

// SubscribeNormal creates a fixed-catalog subscription. The kind must be in
// the catalog; duplicates are rejected, not overwritten.
func (s *Service) SubscribeNormal(ctx context.Context, userID, location string, kind int) (string, error) {
	if !ValidKind(kind) {
		return "", &ValidationError{
			Field:  "alert_kind",
			Reason: "acceptable values are: " + KindCatalogString(),
		}
	}

	err := s.store.CreateNormal(ctx, NormalSubscription{
		UserID:    userID,
		Location:  location,
		AlertKind: kind,
	})
	if errors.Is(err, ErrDuplicateSubscription) {
		return "", fmt.Errorf("user %s is already subscribed to alert type %d (%s) for %s: %w",
			userID, kind, NormalKindDescriptions[kind], location, ErrDuplicateSubscription)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("User %s subscribed to alert type %d (%s) for %s.",
		userID, kind, NormalKindDescriptions[kind], location), nil
}

// SubscribeCustom validates and creates a parametrized subscription.
func (s *Service) SubscribeCustom(ctx context.Context, userID, location, condition, operator, threshold string) (string, error) {
	cond, op, thresh, err := ValidateCustom(condition, operator, threshold)
	if err != nil {
		return "", err
	}

	err = s.store.CreateCustom(ctx, CustomSubscription{
		UserID:    userID,
		Location:  location,
		Condition: cond,
		Operator:  op,
		Threshold: thresh,
	})
	if errors.Is(err, ErrDuplicateSubscription) {
		return "", fmt.Errorf("a subscription for this custom alert already exists at %s: %w",
			location, ErrDuplicateSubscription)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Custom %s alert at %s created.", cond, location), nil
}

// CancelNormal removes a fixed-catalog subscription by its exact key.
func (s *Service) CancelNormal(ctx context.Context, userID, location string, kind int) (string, error) {
	err := s.store.DeleteNormal(ctx, userID, location, kind)
	if errors.Is(err, ErrNoMatch) {
		return "", fmt.Errorf("no active normal subscription for alert type %d in %s: %w",
			kind, location, ErrNoMatch)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cancelled normal alert type %d (%s) for %s.",
		kind, NormalKindDescriptions[kind], location), nil
}

// CancelCustom removes a parametrized subscription. The full identifying
// tuple must match; the input is normalized through the same validation as
// subscribe so equivalent spellings cancel the same row.
func (s *Service) CancelCustom(ctx context.Context, userID, location, condition, operator, threshold string) (string, error) {
	cond, op, thresh, err := ValidateCustom(condition, operator, threshold)
	if err != nil {
		return "", err
	}

	err = s.store.DeleteCustom(ctx, CustomKey{
		UserID:    userID,
		Location:  location,
		Condition: cond,
		Operator:  op,
		Threshold: thresh,
	})
	if errors.Is(err, ErrNoMatch) {
		return "", fmt.Errorf("no active custom %s subscription at %s: %w", cond, location, ErrNoMatch)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cancelled custom %s alert at %s.", cond, location), nil
}

// ListSubscriptions returns all of a user's subscriptions with readable
// descriptions, normal first.
func (s *Service) ListSubscriptions(ctx context.Context, userID string) ([]SubscriptionInfo, error) {
	normal, err := s.store.NormalByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	custom, err := s.store.CustomByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]SubscriptionInfo, 0, len(normal)+len(custom))
	for _, sub := range normal {
		desc, ok := NormalKindDescriptions[sub.AlertKind]
		if !ok {
			desc = "Unknown alert"
		}
		infos = append(infos, SubscriptionInfo{
			Location:    sub.Location,
			AlertType:   strconv.Itoa(sub.AlertKind),
			Description: desc,
		})
	}
	for _, sub := range custom {
		infos = append(infos, SubscriptionInfo{
			Location:    sub.Location,
			AlertType:   sub.Condition + " (custom)",
			Description: DescribeCustom(sub),
		})
	}
	return infos, nil
}

// ActiveAlerts evaluates every subscription the user holds for the location
// against the reading. Each subscription row is evaluated independently, so
// overlapping kinds may all fire.
func (s *Service) ActiveAlerts(ctx context.Context, userID, location string, reading weather.CurrentReading) ([]string, error) {
	normal, err := s.store.NormalForLocation(ctx, userID, location)
	if err != nil {
		return nil, err
	}
	custom, err := s.store.CustomForLocation(ctx, userID, location)
	if err != nil {
		return nil, err
	}

	var messages []string
	for _, sub := range normal {
		if msg, fired := EvaluateNormal(sub, reading); fired {
			messages = append(messages, msg)
		}
	}
	for _, sub := range custom {
		if msg, fired := EvaluateCustom(sub, reading); fired {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}
