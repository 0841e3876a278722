package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/cloud-doctor/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func runningVM(name string, cpu float64, accelerators int) model.VM {
	return model.VM{
		Name:         name,
		Zone:         "us-central1-a",
		MachineType:  "n2-standard-4",
		Status:       model.VMStatusRunning,
		CPUAverage7d: cpu,
		Accelerators: accelerators,
		MonthlyCost:  97.80,
	}
}

func snapshotOf(vms []model.VM, disks []model.Disk, dbs []model.ManagedDatabase, svcs []model.ServerlessService) *model.InventorySnapshot {
	return model.NewInventorySnapshot("demo-project", vms, disks, dbs, svcs)
}

func TestIdleVM(t *testing.T) {
	got := Classify(snapshotOf([]model.VM{runningVM("web-01", 0.03, 0)}, nil, nil, nil), now)

	require.Len(t, got, 1)
	assert.Equal(t, model.ReasonIdleCompute, got[0].Reason)
	assert.Equal(t, 97.80, got[0].PotentialSavings)
	assert.Equal(t, "web-01", got[0].Name())
}

func TestOverProvisionedVM(t *testing.T) {
	got := Classify(snapshotOf([]model.VM{runningVM("api-01", 0.10, 0)}, nil, nil, nil), now)

	require.Len(t, got, 1)
	assert.Equal(t, model.ReasonOverProvisioned, got[0].Reason)
	assert.Equal(t, 48.90, got[0].PotentialSavings)
}

func TestIdleGPUVMYieldsTwoCandidates(t *testing.T) {
	got := Classify(snapshotOf([]model.VM{runningVM("trainer", 0.05, 1)}, nil, nil, nil), now)

	// 0.05 is not below the idle threshold, so the over-provisioned rule fires
	// alongside the GPU rule.
	require.Len(t, got, 2)
	assert.Equal(t, model.ReasonOverProvisioned, got[0].Reason)
	assert.Equal(t, model.ReasonUnderutilizedGPU, got[1].Reason)
	assert.Equal(t, 78.24, got[1].PotentialSavings)
}

func TestIdleGPUVMBelowIdleThreshold(t *testing.T) {
	got := Classify(snapshotOf([]model.VM{runningVM("trainer", 0.04, 2)}, nil, nil, nil), now)

	require.Len(t, got, 2)
	assert.Equal(t, model.ReasonIdleCompute, got[0].Reason)
	assert.Equal(t, model.ReasonUnderutilizedGPU, got[1].Reason)
	assert.Equal(t, got[0].Name(), got[1].Name())
}

func TestBusyOrStoppedVMIsNotFlagged(t *testing.T) {
	stopped := runningVM("batch", 0.0, 0)
	stopped.Status = model.VMStatusTerminated

	got := Classify(snapshotOf([]model.VM{runningVM("busy", 0.60, 0), stopped}, nil, nil, nil), now)
	assert.Empty(t, got)
}

func TestStoppedGPUVMStillMatchesGPURule(t *testing.T) {
	vm := runningVM("gpu-parked", 0.0, 1)
	vm.Status = model.VMStatusTerminated

	got := Classify(snapshotOf([]model.VM{vm}, nil, nil, nil), now)
	require.Len(t, got, 1)
	assert.Equal(t, model.ReasonUnderutilizedGPU, got[0].Reason)
}

func TestOrphanedDisk(t *testing.T) {
	disks := []model.Disk{
		{Name: "old-data", DiskType: "pd-ssd", SizeGB: 100, LastAttachTime: now.Add(-72 * time.Hour), MonthlyCost: 17},
		{Name: "recent", DiskType: "pd-ssd", SizeGB: 100, LastAttachTime: now.Add(-24 * time.Hour), MonthlyCost: 17},
		{Name: "attached", DiskType: "pd-ssd", SizeGB: 100, Users: []string{"vm-1"}, LastAttachTime: now.Add(-500 * time.Hour), MonthlyCost: 17},
		{Name: "never-attached", DiskType: "pd-standard", SizeGB: 50, CreatedAt: now.Add(-49 * time.Hour), MonthlyCost: 2},
		{Name: "no-timestamps", DiskType: "pd-standard", SizeGB: 500, MonthlyCost: 20},
	}

	got := Classify(snapshotOf(nil, disks, nil, nil), now)

	require.Len(t, got, 2)
	assert.Equal(t, "old-data", got[0].Name())
	assert.Equal(t, model.ReasonOrphanedAsset, got[0].Reason)
	assert.Equal(t, 17.0, got[0].PotentialSavings)
	assert.Contains(t, got[0].Detail, "72 hours")
	assert.Equal(t, "never-attached", got[1].Name())
}

func TestIdleDatabaseAndZombieService(t *testing.T) {
	dbs := []model.ManagedDatabase{
		{Name: "legacy-db", State: model.DBStateRunnable, Tier: "db-n1-standard-2", MonthlyCost: 102.20},
		{Name: "busy-db", State: model.DBStateRunnable, ConnectionsAverage7d: 4.2, MonthlyCost: 51.10},
		{Name: "stopped-db", State: "SUSPENDED", MonthlyCost: 51.10},
	}
	svcs := []model.ServerlessService{
		{Name: "zombie", RequestCount7d: 0, MonthlyCost: 49.25},
		{Name: "live", RequestCount7d: 1200, MonthlyCost: 49.25},
	}

	got := Classify(snapshotOf(nil, nil, dbs, svcs), now)

	require.Len(t, got, 2)
	assert.Equal(t, model.ReasonIdleDatabase, got[0].Reason)
	assert.Equal(t, "legacy-db", got[0].Name())
	assert.Equal(t, model.ReasonZombieService, got[1].Reason)
	assert.Equal(t, "zombie", got[1].Name())
}

func TestOrderingAndSnapshotUntouched(t *testing.T) {
	snapshot := snapshotOf(
		[]model.VM{runningVM("web-01", 0.01, 0)},
		[]model.Disk{{Name: "orphan", LastAttachTime: now.Add(-100 * time.Hour), MonthlyCost: 4}},
		[]model.ManagedDatabase{{Name: "db", State: model.DBStateRunnable, MonthlyCost: 7.67}},
		[]model.ServerlessService{{Name: "svc", MonthlyCost: 49.25}},
	)
	before := *snapshot

	got := Classify(snapshot, now)

	require.Len(t, got, 4)
	assert.Equal(t, []model.ResourceKind{model.KindVM, model.KindDisk, model.KindManagedDatabase, model.KindServerlessService},
		[]model.ResourceKind{got[0].Kind(), got[1].Kind(), got[2].Kind(), got[3].Kind()})
	assert.Equal(t, before, *snapshot)
	assert.Equal(t, 158.72, TotalSavings(got))
}

func TestSavingsByReason(t *testing.T) {
	got := Classify(snapshotOf([]model.VM{runningVM("a", 0.01, 0), runningVM("b", 0.02, 0), runningVM("c", 0.10, 0)}, nil, nil, nil), now)

	groups := SavingsByReason(got)
	require.Len(t, groups, 2)
	assert.Equal(t, model.SavingsByReason{Reason: model.ReasonIdleCompute, Count: 2, Savings: 195.60}, groups[0])
	assert.Equal(t, model.SavingsByReason{Reason: model.ReasonOverProvisioned, Count: 1, Savings: 48.90}, groups[1])
}

func TestNilSnapshot(t *testing.T) {
	assert.Nil(t, Classify(nil, now))
}

func TestUnknownUsageIsNeverFlagged(t *testing.T) {
	got := Classify(snapshotOf(
		[]model.VM{runningVM("no-metrics", model.UnknownUsage, 1)},
		nil,
		[]model.ManagedDatabase{{Name: "db", State: model.DBStateRunnable, ConnectionsAverage7d: model.UnknownUsage}},
		[]model.ServerlessService{{Name: "svc", RequestCount7d: model.UnknownUsage}},
	), now)
	assert.Empty(t, got)
}
