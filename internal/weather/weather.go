// Package weather reads today's forecast from the Visual Crossing timeline API.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"yuki/internal/config"
	"yuki/internal/httpclient"
	"yuki/internal/i18n"
)

// ErrNoAPIKey is returned when no weather API key is configured.
var ErrNoAPIKey = errors.New("weather api key not configured")

// Forecast is one day of the timeline response.
type Forecast struct {
	Temp       float64 `json:"temp"`
	Conditions string  `json:"conditions"`
}

type timeline struct {
	Days []Forecast `json:"days"`
}

// Client queries the timeline API for a fixed location.
type Client struct {
	http     *httpclient.Client
	apiURL   string
	location string
	units    string
	key      string
}

// New creates a weather client.
func New(cfg config.WeatherConfig, apiKey string, opts ...httpclient.Option) *Client {
	units := cfg.Units
	if units == "" {
		units = "metric"
	}
	return &Client{
		http:     httpclient.New(opts...),
		apiURL:   cfg.APIURL,
		location: cfg.DefaultLocation,
		units:    units,
		key:      apiKey,
	}
}

// URL returns the timeline request URL.
func (c *Client) URL() string {
	q := url.Values{}
	q.Set("unitGroup", c.units)
	q.Set("include", "days")
	q.Set("key", c.key)
	q.Set("contentType", "json")
	return fmt.Sprintf("%s/%s?%s", c.apiURL, url.PathEscape(c.location), q.Encode())
}

// Today returns the first day of the forecast.
func (c *Client) Today(ctx context.Context) (Forecast, error) {
	if c.key == "" {
		return Forecast{}, ErrNoAPIKey
	}

	var tl timeline
	if err := c.http.GetJSON(ctx, c.URL(), &tl); err != nil {
		return Forecast{}, fmt.Errorf("fetch forecast: %w", err)
	}
	if len(tl.Days) == 0 {
		return Forecast{}, errors.New("forecast has no days")
	}
	return tl.Days[0], nil
}

// Report describes today's weather as a spoken reply.
func (c *Client) Report(ctx context.Context) string {
	f, err := c.Today(ctx)
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return i18n.T("weather_no_key")
	case err != nil:
		slog.Error("error getting weather", "error", err)
		return i18n.T("weather_failed")
	}
	return i18n.Tf("weather_report", f.Temp, f.Conditions)
}
