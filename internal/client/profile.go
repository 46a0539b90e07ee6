// ABOUTME: Profile endpoints
// ABOUTME: Updates send only changed fields and refresh the session's derived profile

package client

import (
	"context"
	"net/http"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Profile returns the signed-in user's profile
func (c *Client) Profile(ctx context.Context, opts ...ReadOption) (*models.Profile, error) {
	var p models.Profile
	ep := endpoint{key: ProfileKey(), resource: config.ResourceProfile, method: http.MethodGet, path: "profile", auth: authRequired}
	if err := c.read(ctx, ep, &p, opts...); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies a partial update
func (c *Client) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error) {
	if u.Empty() {
		return nil, apierr.Validation("PUT /profile", "nothing to update")
	}
	if err := u.Validate(); err != nil {
		return nil, apierr.Validation("PUT /profile", "%s", err)
	}

	var p models.Profile
	if err := c.mutate(ctx, http.MethodPut, "profile", u, &p, ProfileKey()); err != nil {
		return nil, err
	}
	c.sessions.SetProfile(&p)
	return &p, nil
}
