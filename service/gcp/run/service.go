package gcprun

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	run "google.golang.org/api/run/v2"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/pricing"
)

const (
	defaultCPU       = 1.0
	defaultMemoryGiB = 0.5
)

func NewService(ctx context.Context, projectID string, opts ...option.ClientOption) (*service, error) {
	opts = append(opts, option.WithScopes(run.CloudPlatformScope))
	client, err := run.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Run client: %w", err)
	}
	return &service{projectID: projectID, client: client}, nil
}

// ListServices returns Cloud Run services in every region of the project
func (s *service) ListServices(ctx context.Context) ([]model.ServerlessService, error) {
	parent := fmt.Sprintf("projects/%s/locations/-", s.projectID)

	var services []model.ServerlessService
	err := s.client.Projects.Locations.Services.List(parent).Context(ctx).
		Pages(ctx, func(page *run.GoogleCloudRunV2ListServicesResponse) error {
			for _, svc := range page.Services {
				services = append(services, toService(svc))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list Cloud Run services: %w", err)
	}
	return services, nil
}

func toService(svc *run.GoogleCloudRunV2Service) model.ServerlessService {
	out := model.ServerlessService{
		ID:             svc.Uid,
		Name:           lastSegment(svc.Name),
		Region:         regionOf(svc.Name),
		URL:            svc.Uri,
		CPU:            defaultCPU,
		MemoryGiB:      defaultMemoryGiB,
		RequestCount7d: model.UnknownUsage,
		Labels:         svc.Labels,
	}
	if svc.TerminalCondition != nil {
		out.Status = svc.TerminalCondition.State
	}
	if svc.Scaling != nil && svc.Scaling.MinInstanceCount > 0 {
		out.MinInstances = svc.Scaling.MinInstanceCount
	}
	if tmpl := svc.Template; tmpl != nil {
		if tmpl.Scaling != nil && tmpl.Scaling.MinInstanceCount > out.MinInstances {
			out.MinInstances = tmpl.Scaling.MinInstanceCount
		}
		if len(tmpl.Containers) > 0 && tmpl.Containers[0].Resources != nil {
			limits := tmpl.Containers[0].Resources.Limits
			if cpu, ok := parseCPU(limits["cpu"]); ok {
				out.CPU = cpu
			}
			if mem, ok := parseMemoryGiB(limits["memory"]); ok {
				out.MemoryGiB = mem
			}
		}
	}
	out.MonthlyCost = pricing.ServiceCost(out.MinInstances, out.CPU, out.MemoryGiB)
	return out
}

// parseCPU accepts "1", "2", "0.5" and millicore values like "1000m"
func parseCPU(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	if strings.HasSuffix(value, "m") {
		milli, err := strconv.ParseFloat(strings.TrimSuffix(value, "m"), 64)
		if err != nil {
			return 0, false
		}
		return milli / 1000, true
	}
	v, err := strconv.ParseFloat(value, 64)
	return v, err == nil
}

// parseMemoryGiB accepts Kubernetes quantities such as "512Mi" or "2Gi"
func parseMemoryGiB(value string) (float64, bool) {
	units := []struct {
		suffix string
		factor float64
	}{
		{"Gi", 1},
		{"Mi", 1.0 / 1024},
		{"G", 1e9 / (1 << 30)},
		{"M", 1e6 / (1 << 30)},
	}
	for _, u := range units {
		if strings.HasSuffix(value, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(value, u.suffix), 64)
			if err != nil {
				return 0, false
			}
			return v * u.factor, true
		}
	}
	return 0, false
}

// regionOf extracts the location from "projects/p/locations/<region>/services/<name>"
func regionOf(name string) string {
	parts := strings.Split(name, "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "locations" {
			return parts[i+1]
		}
	}
	return ""
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
