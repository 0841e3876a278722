package gcpmonitoring

import (
	"context"
	"time"

	monitoring "google.golang.org/api/monitoring/v3"
)

const (
	cpuUtilizationMetric = "compute.googleapis.com/instance/cpu/utilization"
	sqlConnectionsMetric = "cloudsql.googleapis.com/database/network/connections"
	runRequestCount      = "run.googleapis.com/request_count"

	// UsageWindow is the lookback of every usage signal
	UsageWindow = 7 * 24 * time.Hour
)

type service struct {
	projectID string
	client    *monitoring.Service
	now       func() time.Time
}

// MonitoringService returns 7-day usage signals keyed by resource name.
// Resources without data are absent from the map.
type MonitoringService interface {
	CPUAverages(ctx context.Context) (map[string]float64, error)
	ConnectionAverages(ctx context.Context) (map[string]float64, error)
	RequestCounts(ctx context.Context) (map[string]int64, error)
}
