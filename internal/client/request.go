// ABOUTME: HTTP plumbing for backend calls
// ABOUTME: Builds requests with auth and request-id headers and classifies error responses

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/google/uuid"
)

// ErrorResponse covers the error bodies the backend produces: FastAPI's
// {"detail": "..."} or {"detail": [{"msg": ...}]}, and {"error", "details"}
type ErrorResponse struct {
	Detail  json.RawMessage `json:"detail,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details string          `json:"details,omitempty"`
}

type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func (e ErrorResponse) message() (msg, details string) {
	if len(e.Detail) > 0 {
		var s string
		if json.Unmarshal(e.Detail, &s) == nil {
			return s, e.Details
		}
		var list []validationDetail
		if json.Unmarshal(e.Detail, &list) == nil && len(list) > 0 {
			parts := make([]string, 0, len(list))
			for _, d := range list {
				if field := fieldName(d.Loc); field != "" {
					parts = append(parts, field+": "+d.Msg)
				} else {
					parts = append(parts, d.Msg)
				}
			}
			return strings.Join(parts, "; "), e.Details
		}
	}
	return e.Error, e.Details
}

func fieldName(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}

// do sends one request and returns the response body of a 2xx answer
func (c *Client) do(ctx context.Context, method, path string, body any, token string) ([]byte, error) {
	op := method + " /" + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.Network(ctx, op, "backend at "+c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Network(ctx, op, "backend at "+c.baseURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		var msg, details string
		if json.Unmarshal(data, &errResp) == nil {
			msg, details = errResp.message()
		}
		e := apierr.FromStatus(op, resp.StatusCode, msg)
		e.Details = details
		c.log.Debug("Backend error", "op", op, "status", resp.StatusCode, "message", e.Message)
		return nil, e
	}
	return data, nil
}

// decode unmarshals a successful response body into out
func decode(op string, data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &apierr.Error{Kind: apierr.KindServer, Op: op, Message: "invalid response from backend", Err: err}
	}
	return nil
}
