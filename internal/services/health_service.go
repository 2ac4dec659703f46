package services

import (
	"context"
	"runtime"
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Batches   int            `json:"batches"`
	Runtime   map[string]any `json:"runtime,omitempty"`
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
	dashboard *DashboardService
}

// NewHealthService creates a health service reporting on the given
// dashboard service.
func NewHealthService(version string, dashboard *DashboardService) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		dashboard: dashboard,
	}
}

// Check returns the current health snapshot. The service is always
// healthy while the process runs; the snapshot carries load context.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]any{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
	if s.dashboard != nil {
		status.Batches = s.dashboard.BatchCount()
	}
	return status
}
