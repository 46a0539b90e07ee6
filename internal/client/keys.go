// ABOUTME: Semantic cache keys and endpoint descriptors
// ABOUTME: Every endpoint declares whether it needs a session

package client

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// Key identifies a cached read, e.g. "profile" or "forecasts/spot/3"
type Key string

// Keys for each read endpoint
func ProfileKey() Key { return "profile" }
func SpotsKey() Key { return "spots" }
func SpotKey(id int) Key { return Key("spots/" + strconv.Itoa(id)) }
func PresetsKey() Key { return "presets" }
func PreferencesKey(spotID int) Key { return Key("preferences/spot/" + strconv.Itoa(spotID)) }
func ForecastKey(spotID int) Key { return Key("forecasts/spot/" + strconv.Itoa(spotID)) }

// RecommendationsKey derives a key from the request's content
func RecommendationsKey(req models.RecommendationRequest) Key {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return Key("recommendations/" + hex.EncodeToString(sum[:8]))
}

// public keys are shared by every user and readable without a session
func (k Key) public() bool {
	return k == SpotsKey() || strings.HasPrefix(string(k), "spots/")
}

type authMode int

const (
	authRequired authMode = iota
	authOptional
)

// endpoint describes one cached read
type endpoint struct {
	key      Key
	resource string
	method   string
	path     string
	body     any
	auth     authMode
}

func (e endpoint) op() string {
	return e.method + " /" + e.path
}

// storeKey scopes key to the signed-in user, or to "public" for shared keys
func (c *Client) storeKey(key Key) (string, error) {
	if key.public() {
		return "public/" + string(key), nil
	}
	u, ok := c.sessions.User()
	if !ok {
		return "", apierr.NoSession(string(key))
	}
	return "u/" + u.ID.String() + "/" + string(key), nil
}

func (c *Client) freshFor(resource string) time.Duration {
	if d, ok := c.freshness[resource]; ok {
		return d
	}
	return config.DefaultFreshness[resource]
}
