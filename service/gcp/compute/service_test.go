package gcpcompute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/compute/v1"

	"github.com/elC0mpa/cloud-doctor/model"
)

func TestToVM(t *testing.T) {
	vm := toVM(&compute.Instance{
		Id:                7,
		Name:              "trainer",
		Zone:              "https://www.googleapis.com/compute/v1/projects/p/zones/us-central1-a",
		MachineType:       "https://www.googleapis.com/compute/v1/projects/p/zones/us-central1-a/machineTypes/a2-highgpu-1g",
		Status:            "RUNNING",
		GuestAccelerators: []*compute.AcceleratorConfig{{AcceleratorCount: 1}},
	})

	assert.Equal(t, "7", vm.ID)
	assert.Equal(t, "us-central1-a", vm.Zone)
	assert.Equal(t, "a2-highgpu-1g", vm.MachineType)
	assert.Equal(t, 1, vm.Accelerators)
	assert.Equal(t, float64(model.UnknownUsage), vm.CPUAverage7d)
	assert.Equal(t, 263.0, vm.MonthlyCost)
}

func TestToDisk(t *testing.T) {
	disk := toDisk(&compute.Disk{
		Name:                "orphan",
		Zone:                "projects/p/zones/us-east1-b",
		SizeGb:              200,
		Type:                "projects/p/zones/us-east1-b/diskTypes/pd-balanced",
		LastAttachTimestamp: "2026-02-01T10:00:00.000-08:00",
		CreationTimestamp:   "not-a-time",
	})

	assert.Equal(t, "us-east1-b", disk.Zone)
	assert.Equal(t, "pd-balanced", disk.DiskType)
	assert.Equal(t, 20.0, disk.MonthlyCost)
	assert.Equal(t, time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC), disk.LastAttachTime)
	assert.True(t, disk.CreatedAt.IsZero())
}

func TestExtractResourceName(t *testing.T) {
	assert.Equal(t, "my-disk", extractResourceName("https://compute.googleapis.com/compute/v1/projects/p/zones/z/disks/my-disk"))
	assert.Equal(t, "plain", extractResourceName("plain"))
}
