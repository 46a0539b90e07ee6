// ABOUTME: Maps client errors to the one-line messages the CLI prints
// ABOUTME: Adds a next step for auth failures

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
)

// describeError renders err for a terminal user
func describeError(err error) string {
	switch {
	case errors.Is(err, apierr.ErrNoSession):
		return "not signed in; run \"thecheck login\" first"
	case apierr.IsUnauthorized(err):
		return "session expired; run \"thecheck login\" again"
	default:
		return err.Error()
	}
}

// parseID parses a positional numeric identifier
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}
