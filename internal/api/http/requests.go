package httpapi

// SubscribeRequest creates a fixed-catalog alert subscription.
type SubscribeRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	Location  string `json:"location" validate:"required"`
	AlertType int    `json:"alert_type" validate:"required"`
}

// CustomAlertRequest creates a parametrized alert subscription. Operator is
// required for numeric conditions only; the alerts catalog validates that.
type CustomAlertRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	Location  string `json:"location" validate:"required"`
	Condition string `json:"condition" validate:"required"`
	Operator  string `json:"operator"`
	Threshold string `json:"threshold" validate:"required"`
}

// CancelRequest cancels a subscription of either kind. The normal fields or
// the custom fields must be set depending on subscription_type.
type CancelRequest struct {
	UserID           string `json:"user_id" validate:"required"`
	Location         string `json:"location" validate:"required"`
	SubscriptionType string `json:"subscription_type" validate:"required,oneof=normal custom"`

	AlertType int `json:"alert_type"`

	Condition string `json:"condition"`
	Operator  string `json:"operator"`
	Threshold string `json:"threshold"`
}

// FeedbackRequest records a service rating.
type FeedbackRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// LocationUpdateRequest sets a user's home location.
type LocationUpdateRequest struct {
	Location string `json:"location" validate:"required"`
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location  string `validate:"required"`
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
}

// historicalQuery holds query parameters for the historical endpoint.
type historicalQuery struct {
	Location string `validate:"required"`
	Date     string `validate:"required,datetime=2006-01-02"`
}
