package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-aggregator-api/internal/alerts"
	"weather-aggregator-api/internal/geo"
	"weather-aggregator-api/internal/prefs"
	"weather-aggregator-api/internal/weather"
)

var validate = validator.New()

// Services bundles the domain services the HTTP handlers delegate to.
type Services struct {
	Weather *weather.Service
	Alerts  *alerts.Service
	Prefs   *prefs.Ranker
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		result, err := svc.Weather.Current(c.UserContext(), location, c.Query("user_id"))
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q := forecastQuery{
			Location:  c.Query("location"),
			StartDate: c.Query("start_date"),
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var result weather.ForecastResult
		var err error
		if q.StartDate != "" {
			result, err = svc.Weather.ForecastWithDate(c.UserContext(), q.Location, q.StartDate)
		} else {
			result, err = svc.Weather.Forecast(c.UserContext(), q.Location, "")
		}
		switch {
		case errors.Is(err, geo.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "location not found")
		case errors.Is(err, weather.ErrUnavailable):
			return fiber.NewError(fiber.StatusServiceUnavailable, "weather data not available")
		case err != nil:
			// Remaining errors are date-validation failures.
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(result)
	})

	v1.Get("/weather/historical", func(c *fiber.Ctx) error {
		q := historicalQuery{
			Location: c.Query("location"),
			Date:     c.Query("date"),
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := svc.Weather.Historical(c.UserContext(), q.Location, q.Date)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/climate", func(c *fiber.Ctx) error {
		region := c.Query("region")
		if region == "" {
			return fiber.NewError(fiber.StatusBadRequest, "region query parameter is required")
		}

		result, err := svc.Weather.Climate(c.UserContext(), region)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/seasonal", func(c *fiber.Ctx) error {
		region := c.Query("region")
		if region == "" {
			return fiber.NewError(fiber.StatusBadRequest, "region query parameter is required")
		}

		result, err := svc.Weather.Seasonal(c.UserContext(), region)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/compare", func(c *fiber.Ctx) error {
		locations := weather.SplitLocations(c.Query("locations"))
		if len(locations) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "locations query parameter is required, comma-separated")
		}
		return c.JSON(svc.Weather.Compare(c.UserContext(), locations))
	})

	v1.Get("/weather/detailed", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		result, err := svc.Weather.Detailed(c.UserContext(), location)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/trending", func(c *fiber.Ctx) error {
		return c.JSON(svc.Weather.Trending(c.UserContext()))
	})

	v1.Get("/weather/confidence", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		result, err := svc.Weather.Confidence(c.UserContext(), location)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		cw, err := svc.Weather.Current(c.UserContext(), location, "")
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(fiber.Map{
			"location": location,
			"alerts":   alerts.Advisories(location, cw.Current),
		})
	})

	v1.Post("/alerts/subscriptions", func(c *fiber.Ctx) error {
		var req SubscribeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		msg, err := svc.Alerts.SubscribeNormal(c.UserContext(), req.UserID, req.Location, req.AlertType)
		if err != nil {
			return alertsError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
	})

	v1.Post("/alerts/subscriptions/custom", func(c *fiber.Ctx) error {
		var req CustomAlertRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		msg, err := svc.Alerts.SubscribeCustom(c.UserContext(),
			req.UserID, req.Location, req.Condition, req.Operator, req.Threshold)
		if err != nil {
			return alertsError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
	})

	v1.Delete("/alerts/subscriptions", func(c *fiber.Ctx) error {
		var req CancelRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var msg string
		var err error
		if req.SubscriptionType == "normal" {
			if req.AlertType == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "alert_type is required for normal subscriptions")
			}
			msg, err = svc.Alerts.CancelNormal(c.UserContext(), req.UserID, req.Location, req.AlertType)
		} else {
			msg, err = svc.Alerts.CancelCustom(c.UserContext(),
				req.UserID, req.Location, req.Condition, req.Operator, req.Threshold)
		}
		if err != nil {
			return alertsError(err)
		}
		return c.JSON(fiber.Map{"message": msg})
	})

	v1.Get("/alerts/active", func(c *fiber.Ctx) error {
		location := c.Query("location")
		userID := c.Query("user_id")
		if location == "" || userID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location and user_id query parameters are required")
		}

		cw, err := svc.Weather.Current(c.UserContext(), location, "")
		if err != nil {
			return weatherError(err)
		}

		messages, err := svc.Alerts.ActiveAlerts(c.UserContext(), userID, location, cw.Current)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to evaluate subscriptions")
		}
		return c.JSON(fiber.Map{
			"location":      location,
			"user_id":       userID,
			"active_alerts": messages,
		})
	})

	v1.Get("/users/:id/preferences", func(c *fiber.Ctx) error {
		userID := c.Params("id")

		topSearches, err := svc.Prefs.TopSearches(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load preferences")
		}
		subscriptions, err := svc.Alerts.ListSubscriptions(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load subscriptions")
		}

		resp := fiber.Map{
			"user_id":       userID,
			"top_searches":  topSearches,
			"subscriptions": subscriptions,
		}
		if home, err := svc.Prefs.HomeLocation(c.UserContext(), userID); err == nil {
			resp["location"] = home
		}
		return c.JSON(resp)
	})

	v1.Put("/users/:id/location", func(c *fiber.Ctx) error {
		var req LocationUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		msg, err := svc.Prefs.SetHomeLocation(c.UserContext(), c.Params("id"), req.Location)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save location")
		}
		return c.JSON(fiber.Map{"message": msg})
	})

	v1.Get("/users/:id/recommendation", func(c *fiber.Ctx) error {
		userID := c.Params("id")

		location := c.Query("location")
		if location == "" {
			home, err := svc.Prefs.HomeLocation(c.UserContext(), userID)
			if errors.Is(err, prefs.ErrNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "no location provided and no home location set")
			}
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to load home location")
			}
			location = home
		}

		result, err := svc.Weather.Recommendation(c.UserContext(), location)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/users/:id/activities", func(c *fiber.Ctx) error {
		userID := c.Params("id")

		location, err := svc.Prefs.DefaultLocation(c.UserContext(), userID, c.Query("location"))
		if errors.Is(err, prefs.ErrNoDefaultLocation) {
			return fiber.NewError(fiber.StatusBadRequest, "no location provided and no search history to fall back on")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve default location")
		}

		result, err := svc.Weather.Activities(c.UserContext(), location)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(result)
	})

	v1.Post("/feedback", func(c *fiber.Ctx) error {
		var req FeedbackRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		msg, err := svc.Prefs.SubmitFeedback(c.UserContext(), req.UserID, req.Rating, req.Comment)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to record feedback")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
	})
}

// weatherError maps resolver and provider failures to HTTP statuses.
func weatherError(err error) error {
	switch {
	case errors.Is(err, geo.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	case errors.Is(err, weather.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather data not available")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// alertsError maps subscription failures to HTTP statuses.
func alertsError(err error) error {
	var verr *alerts.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Error())
	case errors.Is(err, alerts.ErrDuplicateSubscription):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, alerts.ErrNoMatch):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update subscriptions")
	}
}
