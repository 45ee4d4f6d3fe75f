package alerts

import "time"

// Custom alert conditions.
const (
	CondTemperature   = "temperature"
	CondWindSpeed     = "wind_speed"
	CondPrecipitation = "precipitation"
)

// Comparison operators for numeric custom alerts.
const (
	OpGreater = ">"
	OpLess    = "<"
)

// NormalSubscription binds a user to one of the fixed catalog alert kinds
// for a location. The composite unique index enforces one row per
// (user, location, kind).
type NormalSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:100;uniqueIndex:uniq_normal_sub" json:"user_id"`
	Location  string    `gorm:"size:255;uniqueIndex:uniq_normal_sub" json:"location"`
	AlertKind int       `gorm:"uniqueIndex:uniq_normal_sub" json:"alert_kind"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomSubscription binds a user to a parametrized alert condition.
// Operator is empty for precipitation alerts. The unique index spans the
// full identifying tuple, so a user may hold several alerts differing only
// by threshold.
type CustomSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:100;uniqueIndex:uniq_custom_sub" json:"user_id"`
	Location  string    `gorm:"size:255;uniqueIndex:uniq_custom_sub" json:"location"`
	Condition string    `gorm:"size:50;uniqueIndex:uniq_custom_sub" json:"condition"`
	Operator  string    `gorm:"size:2;uniqueIndex:uniq_custom_sub" json:"operator,omitempty"`
	Threshold string    `gorm:"size:50;uniqueIndex:uniq_custom_sub" json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the full identifying tuple of a custom subscription.
func (s CustomSubscription) Key() CustomKey {
	return CustomKey{
		UserID:    s.UserID,
		Location:  s.Location,
		Condition: s.Condition,
		Operator:  s.Operator,
		Threshold: s.Threshold,
	}
}

// CustomKey identifies a custom subscription for cancellation.
type CustomKey struct {
	UserID    string
	Location  string
	Condition string
	Operator  string
	Threshold string
}

// SubscriptionInfo is the human-readable listing entry for a user's
// subscription of either kind.
type SubscriptionInfo struct {
	Location    string `json:"location"`
	AlertType   string `json:"alert_type"`
	Description string `json:"description"`
}
