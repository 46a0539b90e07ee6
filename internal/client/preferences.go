// ABOUTME: Per-spot preference endpoints
// ABOUTME: Updates invalidate only the preference entry of that spot

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Preferences returns the user's preferences for a spot
func (c *Client) Preferences(ctx context.Context, spotID int, opts ...ReadOption) (*models.Preference, error) {
	var p models.Preference
	ep := endpoint{
		key:      PreferencesKey(spotID),
		resource: config.ResourcePreferences,
		method:   http.MethodGet,
		path:     "preferences/spot/" + strconv.Itoa(spotID),
		auth:     authRequired,
	}
	if err := c.read(ctx, ep, &p, opts...); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences applies a partial update to a spot's preferences
func (c *Client) UpdatePreferences(ctx context.Context, spotID int, u models.PreferenceUpdate) (*models.Preference, error) {
	path := "preferences/spot/" + strconv.Itoa(spotID)
	if u.Empty() {
		return nil, apierr.Validation("PUT /"+path, "nothing to update")
	}
	if err := u.Validate(); err != nil {
		return nil, apierr.Validation("PUT /"+path, "%s", err)
	}

	var p models.Preference
	if err := c.mutate(ctx, http.MethodPut, path, u, &p, PreferencesKey(spotID)); err != nil {
		return nil, err
	}
	return &p, nil
}
