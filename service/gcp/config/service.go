package gcpconfig

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/option"
)

// NewService resolves credentials for a project. Empty credentialsJSON falls
// back to Application Default Credentials.
func NewService(projectID string, credentialsJSON []byte) *service {
	return &service{
		projectID:       projectID,
		credentialsJSON: credentialsJSON,
	}
}

func (s *service) GetCredentials(ctx context.Context) (*google.Credentials, error) {
	scopes := []string{cloudresourcemanager.CloudPlatformReadOnlyScope}
	if len(s.credentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, s.credentialsJSON, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account key: %w", err)
		}
		return creds, nil
	}
	// Application Default Credentials cover GOOGLE_APPLICATION_CREDENTIALS,
	// gcloud auth application-default login and attached service accounts
	return google.FindDefaultCredentials(ctx, scopes...)
}

// ClientOptions returns the options every Google API client is built with
func (s *service) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	creds, err := s.GetCredentials(ctx)
	if err != nil {
		return nil, err
	}
	if s.projectID == "" && creds.ProjectID != "" {
		s.projectID = creds.ProjectID
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

// GetProjectID returns the configured project, or the credentials' project
// once ClientOptions has resolved it
func (s *service) GetProjectID() string {
	return s.projectID
}
