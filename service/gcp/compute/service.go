package gcpcompute

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/pricing"
)

func NewService(ctx context.Context, projectID string, opts ...option.ClientOption) (*service, error) {
	opts = append(opts, option.WithScopes(compute.ComputeReadonlyScope))
	computeClient, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Compute client: %w", err)
	}

	return &service{
		projectID:     projectID,
		computeClient: computeClient,
	}, nil
}

// ListVMs returns every instance in the project across all zones. CPU
// usage is left unknown; the caller joins it from Cloud Monitoring.
func (s *service) ListVMs(ctx context.Context) ([]model.VM, error) {
	var vms []model.VM

	err := s.computeClient.Instances.AggregatedList(s.projectID).Context(ctx).
		Pages(ctx, func(page *compute.InstanceAggregatedList) error {
			for _, scoped := range page.Items {
				for _, instance := range scoped.Instances {
					vms = append(vms, toVM(instance))
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	return vms, nil
}

func toVM(instance *compute.Instance) model.VM {
	var accelerators int
	for _, acc := range instance.GuestAccelerators {
		accelerators += int(acc.AcceleratorCount)
	}

	machineType := extractResourceName(instance.MachineType)
	return model.VM{
		ID:           strconv.FormatUint(instance.Id, 10),
		Name:         instance.Name,
		Zone:         extractResourceName(instance.Zone),
		MachineType:  machineType,
		Status:       instance.Status,
		CPUAverage7d: model.UnknownUsage,
		Accelerators: accelerators,
		Labels:       instance.Labels,
		MonthlyCost:  pricing.ComputeCost(machineType),
	}
}

// ListDisks returns every persistent disk in the project across all zones
func (s *service) ListDisks(ctx context.Context) ([]model.Disk, error) {
	var disks []model.Disk

	err := s.computeClient.Disks.AggregatedList(s.projectID).Context(ctx).
		Pages(ctx, func(page *compute.DiskAggregatedList) error {
			for _, scoped := range page.Items {
				for _, disk := range scoped.Disks {
					disks = append(disks, toDisk(disk))
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list disks: %w", err)
	}
	return disks, nil
}

func toDisk(disk *compute.Disk) model.Disk {
	diskType := extractResourceName(disk.Type)
	return model.Disk{
		ID:             strconv.FormatUint(disk.Id, 10),
		Name:           disk.Name,
		Zone:           extractResourceName(disk.Zone),
		SizeGB:         disk.SizeGb,
		DiskType:       diskType,
		Status:         disk.Status,
		Users:          disk.Users,
		LastAttachTime: parseTimestamp(disk.LastAttachTimestamp),
		CreatedAt:      parseTimestamp(disk.CreationTimestamp),
		Labels:         disk.Labels,
		MonthlyCost:    pricing.DiskCost(disk.SizeGb, diskType),
	}
}

// parseTimestamp returns the zero time for empty or malformed values
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// extractResourceName extracts the resource name from a GCP resource URL
// e.g., "https://compute.googleapis.com/compute/v1/projects/my-project/zones/us-central1-a/disks/my-disk"
// returns "my-disk"
func extractResourceName(resourceURL string) string {
	for i := len(resourceURL) - 1; i >= 0; i-- {
		if resourceURL[i] == '/' {
			return resourceURL[i+1:]
		}
	}
	return resourceURL
}
