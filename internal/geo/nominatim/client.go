package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"weather-aggregator-api/internal/geo"
	"weather-aggregator-api/internal/httpx"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org/search"

// userAgent identifies the service to Nominatim per its usage policy.
const userAgent = "WeatherAggregatorAPI/1.0"

// Client implements geo.Geocoder using the OSM Nominatim search API.
type Client struct {
	baseURL string
	httpCfg httpx.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpCfg: httpx.ClientConfig{
			Client:  client,
			Backoff: httpx.DefaultBackoff,
		},
		circuit: httpx.NewBreaker("nominatim"),
	}
}

// Search requests up to 5 candidates with address details for the query.
func (c *Client) Search(ctx context.Context, query string) ([]geo.Candidate, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", query)
		values.Set("format", "json")
		values.Set("addressdetails", "1")
		values.Set("limit", "5")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "en")
		return req, nil
	}

	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Nominatim serializes coordinates as strings.
	var payload []struct {
		Lat         string            `json:"lat"`
		Lon         string            `json:"lon"`
		Importance  float64           `json:"importance"`
		DisplayName string            `json:"display_name"`
		Address     map[string]string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	candidates := make([]geo.Candidate, 0, len(payload))
	for _, item := range payload {
		lat, latErr := strconv.ParseFloat(item.Lat, 64)
		lon, lonErr := strconv.ParseFloat(item.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		candidates = append(candidates, geo.Candidate{
			Lat:         lat,
			Lon:         lon,
			Importance:  item.Importance,
			DisplayName: item.DisplayName,
			Address:     item.Address,
		})
	}
	return candidates, nil
}
