package gcpinventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/model"
	gcpcompute "github.com/elC0mpa/cloud-doctor/service/gcp/compute"
	gcpmonitoring "github.com/elC0mpa/cloud-doctor/service/gcp/monitoring"
	gcprun "github.com/elC0mpa/cloud-doctor/service/gcp/run"
	gcpsql "github.com/elC0mpa/cloud-doctor/service/gcp/sql"
)

// API service names, used for enable hints
const (
	computeAPI    = "compute.googleapis.com"
	sqlAdminAPI   = "sqladmin.googleapis.com"
	runAPI        = "run.googleapis.com"
	monitoringAPI = "monitoring.googleapis.com"
)

type clients struct {
	projectID  string
	compute    gcpcompute.ComputeService
	sql        gcpsql.SQLService
	run        gcprun.RunService
	monitoring gcpmonitoring.MonitoringService
}

type clientFactory func(ctx context.Context, projectID string, credentials []byte) (*clients, error)

type service struct {
	logger     zerolog.Logger
	newClients clientFactory
}

type InventoryService interface {
	FetchInventory(ctx context.Context, req model.RunRequest) (*model.InventorySnapshot, error)
}
