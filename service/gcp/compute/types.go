package gcpcompute

import (
	"context"

	"google.golang.org/api/compute/v1"

	"github.com/elC0mpa/cloud-doctor/model"
)

type service struct {
	projectID     string
	computeClient *compute.Service
}

type ComputeService interface {
	ListVMs(ctx context.Context) ([]model.VM, error)
	ListDisks(ctx context.Context) ([]model.Disk, error)
}
