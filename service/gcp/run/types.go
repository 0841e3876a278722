package gcprun

import (
	"context"

	run "google.golang.org/api/run/v2"

	"github.com/elC0mpa/cloud-doctor/model"
)

type service struct {
	projectID string
	client    *run.Service
}

type RunService interface {
	ListServices(ctx context.Context) ([]model.ServerlessService, error)
}
