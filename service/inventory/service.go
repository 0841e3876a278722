package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
	"github.com/elC0mpa/cloud-doctor/service/pricing"
)

// NewService dispatches on the run's inventory mode. live may be nil when
// no cloud access is configured.
func NewService(live service.InventoryService, logger zerolog.Logger) *inventoryService {
	return &inventoryService{
		live:   live,
		logger: logger.With().Str("component", "inventory").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *inventoryService) FetchInventory(ctx context.Context, req model.RunRequest) (*model.InventorySnapshot, error) {
	switch req.Mode {
	case model.InventoryLive:
		if s.live == nil {
			return nil, fmt.Errorf("live inventory is not configured")
		}
		return s.live.FetchInventory(ctx, req)
	case model.InventoryFile:
		doc, err := LoadFile(req.FilePath)
		if err != nil {
			return nil, err
		}
		account := req.AccountID
		if account == "" {
			account = doc.Project
		}
		s.logger.Info().Str("path", req.FilePath).Msg("inventory loaded from file")
		return Snapshot(account, doc), nil
	case model.InventorySimulated, "":
		seed := req.Seed
		if seed == 0 {
			seed = s.now().UnixNano()
		}
		s.logger.Info().Int64("seed", seed).Msg("generating simulated inventory")
		return Snapshot(req.AccountID, Simulate(seed, s.now())), nil
	}
	return nil, fmt.Errorf("unknown inventory mode %q", req.Mode)
}

// Snapshot prices any unpriced records of doc and builds the snapshot
func Snapshot(accountID string, doc *Document) *model.InventorySnapshot {
	for i := range doc.VMs {
		if doc.VMs[i].MonthlyCost == 0 {
			doc.VMs[i].MonthlyCost = pricing.ComputeCost(doc.VMs[i].MachineType)
		}
	}
	for i := range doc.Disks {
		if doc.Disks[i].MonthlyCost == 0 {
			doc.Disks[i].MonthlyCost = pricing.DiskCost(doc.Disks[i].SizeGB, doc.Disks[i].DiskType)
		}
	}
	for i := range doc.Databases {
		if doc.Databases[i].MonthlyCost == 0 {
			doc.Databases[i].MonthlyCost = pricing.DatabaseCost(doc.Databases[i].Tier)
		}
	}
	for i := range doc.Services {
		svc := &doc.Services[i]
		if svc.MonthlyCost == 0 {
			svc.MonthlyCost = pricing.ServiceCost(svc.MinInstances, svc.CPU, svc.MemoryGiB)
		}
	}
	return model.NewInventorySnapshot(accountID, doc.VMs, doc.Disks, doc.Databases, doc.Services)
}
