package gcpidentity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/elC0mpa/cloud-doctor/model"
	gcpconfig "github.com/elC0mpa/cloud-doctor/service/gcp/config"
)

func NewService() *service {
	return &service{newClient: newResourceManager}
}

func newResourceManager(ctx context.Context, credentials []byte) (*cloudresourcemanager.Service, error) {
	opts, err := gcpconfig.NewService("", credentials).ClientOptions(ctx)
	if err != nil {
		return nil, err
	}
	opts = append(opts, option.WithScopes(cloudresourcemanager.CloudPlatformReadOnlyScope))
	return cloudresourcemanager.NewService(ctx, opts...)
}

// GetAccountInfo returns the project's identity
func (s *service) GetAccountInfo(ctx context.Context, projectID string, credentials []byte) (*model.AccountInfo, error) {
	client, err := s.newClient(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create Resource Manager client: %w", err)
	}
	project, err := client.Projects.Get(projectID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &model.AccountInfo{
		Provider:    "gcp",
		AccountID:   projectID,
		AccountName: project.Name,
	}, nil
}

// Verify checks that the credentials can read the project. It never
// returns an error; failures are described in the status message.
func (s *service) Verify(ctx context.Context, projectID string, credentials []byte) model.ConnectionStatus {
	if projectID == "" {
		return model.ConnectionStatus{OK: false, Message: "project id is required"}
	}

	info, err := s.GetAccountInfo(ctx, projectID, credentials)
	if err != nil {
		return model.ConnectionStatus{OK: false, Message: describe(projectID, err)}
	}
	return model.ConnectionStatus{OK: true, Message: fmt.Sprintf("Connected to %s (%s)", info.AccountName, info.AccountID)}
}

func describe(projectID string, err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return fmt.Sprintf("permission denied on project %s: %s", projectID, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Sprintf("project %s not found", projectID)
		}
	}
	return err.Error()
}
