package gcpidentity

import (
	"context"

	"google.golang.org/api/cloudresourcemanager/v1"

	"github.com/elC0mpa/cloud-doctor/model"
)

type service struct {
	newClient func(ctx context.Context, credentials []byte) (*cloudresourcemanager.Service, error)
}

type IdentityService interface {
	GetAccountInfo(ctx context.Context, projectID string, credentials []byte) (*model.AccountInfo, error)
	Verify(ctx context.Context, projectID string, credentials []byte) model.ConnectionStatus
}
