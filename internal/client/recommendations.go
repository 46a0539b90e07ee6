// ABOUTME: Recommendation endpoint
// ABOUTME: A POST that reads, cached under a hash of the request

package client

import (
	"context"
	"net/http"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Recommendations ranks spot/time slots for req
func (c *Client) Recommendations(ctx context.Context, req models.RecommendationRequest, opts ...ReadOption) ([]models.Recommendation, error) {
	if err := req.Validate(); err != nil {
		return nil, apierr.Validation("POST /recommendations", "%s", err)
	}

	var recs []models.Recommendation
	ep := endpoint{
		key:      RecommendationsKey(req),
		resource: config.ResourceRecommendations,
		method:   http.MethodPost,
		path:     "recommendations",
		body:     req,
		auth:     authRequired,
	}
	if err := c.read(ctx, ep, &recs, opts...); err != nil {
		return nil, err
	}
	return recs, nil
}

// PresetRecommendations runs the preset's query with the default limit
func (c *Client) PresetRecommendations(ctx context.Context, p models.Preset, opts ...ReadOption) ([]models.Recommendation, error) {
	return c.Recommendations(ctx, p.RecommendationRequest(models.DefaultRecommendationLimit), opts...)
}
