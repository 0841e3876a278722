package inventory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/elC0mpa/cloud-doctor/model"
)

var (
	simZones         = []string{"us-central1-a", "us-central1-b", "europe-west1-b"}
	simMachineTypes  = []string{"e2-medium", "n2-standard-4", "n2-standard-8", "custom-4-16384", "m1-ultramem-40"}
	simDiskTypes     = []string{"pd-standard", "pd-balanced", "pd-ssd"}
	simDBTiers       = []string{"db-f1-micro", "db-g1-small", "db-n1-standard-2", "db-custom-4-15360"}
	simTeams         = []string{"platform", "data", "web", "ml"}
	simEnvironments  = []string{"dev", "staging", "prod"}
	simServiceNames  = []string{"checkout-api", "image-resizer", "legacy-webhook", "reports"}
	simDatabaseNames = []string{"orders-db", "analytics-db", "legacy-crm"}
)

// Simulate builds a reproducible inventory for a seed. It always contains
// a mix of busy and wasteful resources.
func Simulate(seed int64, now time.Time) *Document {
	r := rand.New(rand.NewSource(seed))
	doc := &Document{Project: "simulated-project"}

	vmCount := 4 + r.Intn(4)
	for i := 0; i < vmCount; i++ {
		vm := model.VM{
			ID:           fmt.Sprintf("%d", 1000+i),
			Name:         fmt.Sprintf("vm-%02d", i+1),
			Zone:         pick(r, simZones),
			MachineType:  pick(r, simMachineTypes),
			Status:       model.VMStatusRunning,
			CPUAverage7d: float64(r.Intn(80)) / 100,
			Labels:       simLabels(r),
		}
		switch i {
		case 0:
			vm.CPUAverage7d = 0.02
		case 1:
			vm.CPUAverage7d = 0.09
		case 2:
			vm.MachineType = "a2-highgpu-1g"
			vm.Accelerators = 1
			vm.CPUAverage7d = 0.04
		}
		if i > 2 && r.Intn(5) == 0 {
			vm.Status = model.VMStatusTerminated
		}
		doc.VMs = append(doc.VMs, vm)
	}

	diskCount := 3 + r.Intn(3)
	for i := 0; i < diskCount; i++ {
		d := model.Disk{
			ID:        fmt.Sprintf("%d", 2000+i),
			Name:      fmt.Sprintf("disk-%02d", i+1),
			Zone:      pick(r, simZones),
			SizeGB:    int64(10 * (1 + r.Intn(50))),
			DiskType:  pick(r, simDiskTypes),
			Status:    model.DiskStatusReady,
			CreatedAt: now.Add(-time.Duration(200+r.Intn(2000)) * time.Hour),
			Labels:    simLabels(r),
		}
		if i == 0 || r.Intn(2) == 0 {
			d.LastAttachTime = now.Add(-time.Duration(49+r.Intn(500)) * time.Hour)
		} else {
			d.Users = []string{doc.VMs[r.Intn(len(doc.VMs))].Name}
			d.LastAttachTime = now.Add(-time.Duration(r.Intn(48)) * time.Hour)
		}
		doc.Disks = append(doc.Disks, d)
	}

	for i, name := range simDatabaseNames {
		db := model.ManagedDatabase{
			ID:                   name,
			Name:                 name,
			Region:               "us-central1",
			Tier:                 pick(r, simDBTiers),
			DatabaseVersion:      "POSTGRES_15",
			State:                model.DBStateRunnable,
			ConnectionsAverage7d: float64(1 + r.Intn(40)),
			Labels:               simLabels(r),
		}
		if i == len(simDatabaseNames)-1 {
			db.ConnectionsAverage7d = 0
		}
		doc.Databases = append(doc.Databases, db)
	}

	for i, name := range simServiceNames {
		svc := model.ServerlessService{
			ID:             name,
			Name:           name,
			Region:         "us-central1",
			Status:         "Ready",
			URL:            fmt.Sprintf("https://%s-%d.a.run.app", name, r.Intn(99999)),
			MinInstances:   int64(r.Intn(3)),
			CPU:            1,
			MemoryGiB:      0.5,
			RequestCount7d: int64(100 + r.Intn(100000)),
			Labels:         simLabels(r),
		}
		if i == 2 {
			svc.RequestCount7d = 0
		}
		doc.Services = append(doc.Services, svc)
	}

	return doc
}

func pick(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}

func simLabels(r *rand.Rand) map[string]string {
	return map[string]string{
		"team": pick(r, simTeams),
		"env":  pick(r, simEnvironments),
	}
}
