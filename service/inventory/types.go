// Package inventory acquires the resource snapshot of a run from the live
// project, an uploaded file, or a seeded simulation.
package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
)

type inventoryService struct {
	live   service.InventoryService
	logger zerolog.Logger
	now    func() time.Time
}

type InventoryService interface {
	FetchInventory(ctx context.Context, req model.RunRequest) (*model.InventorySnapshot, error)
}

// Document is the on-disk inventory format. Costs left at zero are priced
// at load.
type Document struct {
	Project   string                    `json:"project" yaml:"project"`
	VMs       []model.VM                `json:"vms" yaml:"vms"`
	Disks     []model.Disk              `json:"disks" yaml:"disks"`
	Databases []model.ManagedDatabase   `json:"databases" yaml:"databases"`
	Services  []model.ServerlessService `json:"services" yaml:"services"`
}
