// ABOUTME: Spot catalog endpoints
// ABOUTME: Readable without a session; a token is attached when one exists

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Spots returns every known spot
func (c *Client) Spots(ctx context.Context, opts ...ReadOption) ([]models.Spot, error) {
	var spots []models.Spot
	ep := endpoint{key: SpotsKey(), resource: config.ResourceSpots, method: http.MethodGet, path: "spots", auth: authOptional}
	if err := c.read(ctx, ep, &spots, opts...); err != nil {
		return nil, err
	}
	return spots, nil
}

// Spot returns one spot
func (c *Client) Spot(ctx context.Context, id int, opts ...ReadOption) (*models.Spot, error) {
	var s models.Spot
	ep := endpoint{key: SpotKey(id), resource: config.ResourceSpots, method: http.MethodGet, path: "spots/" + strconv.Itoa(id), auth: authOptional}
	if err := c.read(ctx, ep, &s, opts...); err != nil {
		return nil, err
	}
	return &s, nil
}
