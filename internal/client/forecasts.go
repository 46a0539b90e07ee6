// ABOUTME: Forecast endpoint
// ABOUTME: Forecasts change slowly and are cached for longer than user data

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Forecast returns the multi-day forecast for a spot
func (c *Client) Forecast(ctx context.Context, spotID int, opts ...ReadOption) (*models.SpotForecast, error) {
	var f models.SpotForecast
	ep := endpoint{
		key:      ForecastKey(spotID),
		resource: config.ResourceForecasts,
		method:   http.MethodGet,
		path:     "forecasts/spot/" + strconv.Itoa(spotID),
		auth:     authRequired,
	}
	if err := c.read(ctx, ep, &f, opts...); err != nil {
		return nil, err
	}
	return &f, nil
}
