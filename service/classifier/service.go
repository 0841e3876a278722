// Package classifier flags wasteful resources in an inventory snapshot.
package classifier

import (
	"fmt"
	"time"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/pricing"
)

// Classify returns the optimization candidates of a snapshot: VM findings
// first, then disks, databases and serverless services. The snapshot is
// only read.
func Classify(snapshot *model.InventorySnapshot, now time.Time) []model.Candidate {
	if snapshot == nil {
		return nil
	}

	var candidates []model.Candidate
	for _, vm := range snapshot.VMs {
		candidates = append(candidates, classifyVM(vm)...)
	}
	for _, disk := range snapshot.Disks {
		if c, ok := classifyDisk(disk, now); ok {
			candidates = append(candidates, c)
		}
	}
	for _, db := range snapshot.Databases {
		if c, ok := classifyDatabase(db); ok {
			candidates = append(candidates, c)
		}
	}
	for _, svc := range snapshot.Services {
		if c, ok := classifyService(svc); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// classifyVM applies the idle/over-provisioned pair (idle wins) and the GPU
// rule, which is evaluated independently and may add a second finding.
func classifyVM(vm model.VM) []model.Candidate {
	if vm.CPUAverage7d < 0 {
		return nil
	}

	var out []model.Candidate
	cpuPct := vm.CPUAverage7d * 100

	if vm.Status == model.VMStatusRunning {
		if vm.CPUAverage7d < IdleCPUThreshold {
			out = append(out, model.Candidate{
				Reason:           model.ReasonIdleCompute,
				Detail:           fmt.Sprintf("Running %s averaged %.1f%% CPU over 7 days", vm.MachineType, cpuPct),
				PotentialSavings: vm.MonthlyCost,
				Resource:         vm,
			})
		} else if vm.CPUAverage7d < OverProvisionedCPUThreshold {
			out = append(out, model.Candidate{
				Reason:           model.ReasonOverProvisioned,
				Detail:           fmt.Sprintf("%s averaged only %.1f%% CPU over 7 days", vm.MachineType, cpuPct),
				PotentialSavings: pricing.Fraction(vm.MonthlyCost, OverProvisionedSavingsFraction),
				Resource:         vm,
			})
		}
	}

	if vm.Accelerators > 0 && vm.CPUAverage7d < UnderutilizedGPUThreshold {
		out = append(out, model.Candidate{
			Reason:           model.ReasonUnderutilizedGPU,
			Detail:           fmt.Sprintf("%d accelerator(s) attached with %.1f%% CPU average", vm.Accelerators, cpuPct),
			PotentialSavings: pricing.Fraction(vm.MonthlyCost, UnderutilizedGPUSavingsFraction),
			Resource:         vm,
		})
	}

	return out
}

func classifyDisk(disk model.Disk, now time.Time) (model.Candidate, bool) {
	if len(disk.Users) > 0 {
		return model.Candidate{}, false
	}

	// Disks that were never attached fall back to their creation time.
	// Without either timestamp the detach age is unknown.
	since := disk.LastAttachTime
	if since.IsZero() {
		since = disk.CreatedAt
	}
	if since.IsZero() {
		return model.Candidate{}, false
	}
	idle := now.Sub(since)
	if idle <= OrphanedDiskAge {
		return model.Candidate{}, false
	}

	return model.Candidate{
		Reason:           model.ReasonOrphanedAsset,
		Detail:           fmt.Sprintf("Unattached %d GB %s disk, detached for %d hours", disk.SizeGB, disk.DiskType, int(idle.Hours())),
		PotentialSavings: disk.MonthlyCost,
		Resource:         disk,
	}, true
}

func classifyDatabase(db model.ManagedDatabase) (model.Candidate, bool) {
	if db.State != model.DBStateRunnable || db.ConnectionsAverage7d != 0 {
		return model.Candidate{}, false
	}
	return model.Candidate{
		Reason:           model.ReasonIdleDatabase,
		Detail:           fmt.Sprintf("%s (%s) had no connections in 7 days", db.Tier, db.DatabaseVersion),
		PotentialSavings: db.MonthlyCost,
		Resource:         db,
	}, true
}

func classifyService(svc model.ServerlessService) (model.Candidate, bool) {
	if svc.RequestCount7d != 0 {
		return model.Candidate{}, false
	}
	return model.Candidate{
		Reason:           model.ReasonZombieService,
		Detail:           fmt.Sprintf("No requests in 7 days (min instances: %d)", svc.MinInstances),
		PotentialSavings: svc.MonthlyCost,
		Resource:         svc,
	}, true
}

// TotalSavings sums the potential savings of candidates, rounded to cents
func TotalSavings(candidates []model.Candidate) float64 {
	items := make([]model.CostItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, model.CostItem{Kind: c.Kind(), Name: c.Name(), Cost: c.PotentialSavings})
	}
	return model.SumCosts(items)
}

// SavingsByReason groups candidates by reason in first-seen order
func SavingsByReason(candidates []model.Candidate) []model.SavingsByReason {
	var out []model.SavingsByReason
	index := map[model.ReasonCode]int{}
	for _, c := range candidates {
		i, ok := index[c.Reason]
		if !ok {
			i = len(out)
			index[c.Reason] = i
			out = append(out, model.SavingsByReason{Reason: c.Reason})
		}
		out[i].Count++
		out[i].Savings = pricing.Round(out[i].Savings + c.PotentialSavings)
	}
	return out
}
