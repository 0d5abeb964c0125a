// Package backend is the HTTP/JSON client for the check-in management
// backend. The backend owns persistence, QR generation, identity and all
// post-checkin timing rules; the gateway only consumes it.
// File: backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-checkin-gateway/logger"
	"go-checkin-gateway/models"
)

// Service is the collaborator interface the controllers depend on.
type Service interface {
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	GetEventStats(ctx context.Context, eventID string) (*models.EventStats, error)
	GetUser(ctx context.Context, token string, userID int) (*models.User, error)
	ValidateCheckin(ctx context.Context, token string, req models.ValidateRequest) (*models.ValidateResponse, error)
	CreateCheckin(ctx context.Context, token string, req models.CheckinCreate) (*models.Checkin, error)
}

// APIError is a non-2xx backend response. Detail carries the backend's
// human-readable reason (e.g. the checkout waiting message) and is shown
// to the attendee as-is.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. baseURL includes any path prefix,
// e.g. "http://localhost:8000/api".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetEvent fetches one event, including its attached templates.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID, "", nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventStats fetches attendance counters for one event.
func (c *Client) GetEventStats(ctx context.Context, eventID string) (*models.EventStats, error) {
	var stats models.EventStats
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID+"/stats", "", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetUser fetches an attendee with their accumulated profile_data.
func (c *Client) GetUser(ctx context.Context, token string, userID int) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.Itoa(userID), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateCheckin asks the backend whether the user may act on the event.
func (c *Client) ValidateCheckin(ctx context.Context, token string, req models.ValidateRequest) (*models.ValidateResponse, error) {
	var resp models.ValidateResponse
	if err := c.do(ctx, http.MethodPost, "/checkins/validate", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// checkinEnvelope is the POST /checkins response body.
type checkinEnvelope struct {
	Success bool            `json:"success"`
	Checkin *models.Checkin `json:"checkin"`
}

// CreateCheckin submits a check-in or, for an existing record, a
// check-out. The backend decides which from the record's state.
func (c *Client) CreateCheckin(ctx context.Context, token string, req models.CheckinCreate) (*models.Checkin, error) {
	var envelope checkinEnvelope
	if err := c.do(ctx, http.MethodPost, "/checkins", token, req, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.Checkin == nil {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Detail: "後端回應不完整"}
	}
	return envelope.Checkin, nil
}

// do performs one request/response cycle against the backend.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn.Printf("backend: closing response body for %s %s: %v", method, path, cerr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// errorDetail extracts the backend's error message. The backend wraps
// failures as {"detail": "..."}; anything else falls back to the raw body.
func errorDetail(data []byte) string {
	var wrapper struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		if wrapper.Detail != "" {
			return wrapper.Detail
		}
		if wrapper.Message != "" {
			return wrapper.Message
		}
	}
	return string(data)
}
