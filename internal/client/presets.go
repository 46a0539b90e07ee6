// ABOUTME: Preset endpoints
// ABOUTME: Every successful write invalidates the cached preset list

package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Presets returns the signed-in user's presets
func (c *Client) Presets(ctx context.Context, opts ...ReadOption) ([]models.Preset, error) {
	var presets []models.Preset
	ep := endpoint{key: PresetsKey(), resource: config.ResourcePresets, method: http.MethodGet, path: "presets", auth: authRequired}
	if err := c.read(ctx, ep, &presets, opts...); err != nil {
		return nil, err
	}
	return presets, nil
}

// Preset returns one preset from the (possibly cached) list
func (c *Client) Preset(ctx context.Context, id int, opts ...ReadOption) (*models.Preset, error) {
	presets, err := c.Presets(ctx, opts...)
	if err != nil {
		return nil, err
	}
	p, ok := models.FindPreset(presets, id)
	if !ok {
		return nil, &apierr.Error{Kind: apierr.KindNotFound, Op: "preset", Message: "preset " + strconv.Itoa(id) + " not found"}
	}
	return &p, nil
}

// DefaultPreset returns the preset recommendations use when none is chosen
func (c *Client) DefaultPreset(ctx context.Context, opts ...ReadOption) (*models.Preset, error) {
	presets, err := c.Presets(ctx, opts...)
	if err != nil {
		return nil, err
	}
	p, ok := models.DefaultPreset(presets)
	if !ok {
		return nil, &apierr.Error{Kind: apierr.KindNotFound, Op: "default preset", Message: "no presets yet"}
	}
	return &p, nil
}

// CreatePreset validates and creates a preset
func (c *Client) CreatePreset(ctx context.Context, p models.PresetCreate) (*models.Preset, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, apierr.Validation("POST /presets", "%s", err)
	}

	var created models.Preset
	if err := c.mutate(ctx, http.MethodPost, "presets", p, &created, PresetsKey()); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePreset validates the update against the current preset and applies it
func (c *Client) UpdatePreset(ctx context.Context, id int, u models.PresetUpdate) (*models.Preset, error) {
	op := "PUT /presets/" + strconv.Itoa(id)
	if u.Empty() {
		return nil, apierr.Validation(op, "nothing to update")
	}
	if u.StartTime != nil {
		t := models.NormalizeTime(*u.StartTime)
		u.StartTime = &t
	}
	if u.EndTime != nil {
		t := models.NormalizeTime(*u.EndTime)
		u.EndTime = &t
	}

	current, err := c.Preset(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Validate(*current); err != nil {
		return nil, apierr.Validation(op, "%s", err)
	}
	return c.putPreset(ctx, id, u)
}

func (c *Client) putPreset(ctx context.Context, id int, u models.PresetUpdate) (*models.Preset, error) {
	var updated models.Preset
	if err := c.mutate(ctx, http.MethodPut, "presets/"+strconv.Itoa(id), u, &updated, PresetsKey()); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePreset removes a preset
func (c *Client) DeletePreset(ctx context.Context, id int) error {
	return c.mutate(ctx, http.MethodDelete, "presets/"+strconv.Itoa(id), nil, nil, PresetsKey())
}

// MakeDefaultPreset flags id as the default and clears the flag on every
// other preset. Steps that succeeded stay applied when a later one fails.
func (c *Client) MakeDefaultPreset(ctx context.Context, id int) error {
	presets, err := c.Presets(ctx, Force())
	if err != nil {
		return err
	}
	target, ok := models.FindPreset(presets, id)
	if !ok {
		return &apierr.Error{Kind: apierr.KindNotFound, Op: "default preset", Message: "preset " + strconv.Itoa(id) + " not found"}
	}

	yes, no := true, false
	if !target.IsDefault {
		if _, err := c.putPreset(ctx, id, models.PresetUpdate{IsDefault: &yes}); err != nil {
			return err
		}
	}

	var errs []error
	for _, p := range presets {
		if p.ID == id || !p.IsDefault {
			continue
		}
		if _, err := c.putPreset(ctx, p.ID, models.PresetUpdate{IsDefault: &no}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
