// Package controllers controllers/mock_backend_service.go
package controllers

import (
	"context"
	"errors"

	"go-checkin-gateway/models"
)

// MockBackendService is a test double for backend.Service. Each call is
// backed by an overridable func; unset funcs return a generic error.
type MockBackendService struct {
	GetEventFunc        func(ctx context.Context, eventID string) (*models.Event, error)
	GetEventStatsFunc   func(ctx context.Context, eventID string) (*models.EventStats, error)
	GetUserFunc         func(ctx context.Context, token string, userID int) (*models.User, error)
	ValidateCheckinFunc func(ctx context.Context, token string, req models.ValidateRequest) (*models.ValidateResponse, error)
	CreateCheckinFunc   func(ctx context.Context, token string, req models.CheckinCreate) (*models.Checkin, error)
}

var errMockUnset = errors.New("mock: call not configured")

func (m *MockBackendService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	if m.GetEventFunc == nil {
		return nil, errMockUnset
	}
	return m.GetEventFunc(ctx, eventID)
}

func (m *MockBackendService) GetEventStats(ctx context.Context, eventID string) (*models.EventStats, error) {
	if m.GetEventStatsFunc == nil {
		return nil, errMockUnset
	}
	return m.GetEventStatsFunc(ctx, eventID)
}

func (m *MockBackendService) GetUser(ctx context.Context, token string, userID int) (*models.User, error) {
	if m.GetUserFunc == nil {
		return nil, errMockUnset
	}
	return m.GetUserFunc(ctx, token, userID)
}

func (m *MockBackendService) ValidateCheckin(ctx context.Context, token string, req models.ValidateRequest) (*models.ValidateResponse, error) {
	if m.ValidateCheckinFunc == nil {
		return nil, errMockUnset
	}
	return m.ValidateCheckinFunc(ctx, token, req)
}

func (m *MockBackendService) CreateCheckin(ctx context.Context, token string, req models.CheckinCreate) (*models.Checkin, error) {
	if m.CreateCheckinFunc == nil {
		return nil, errMockUnset
	}
	return m.CreateCheckinFunc(ctx, token, req)
}
