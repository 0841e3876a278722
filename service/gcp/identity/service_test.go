package gcpidentity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/option"
)

func fakeService(handler http.HandlerFunc) (*service, func()) {
	srv := httptest.NewServer(handler)
	svc := &service{newClient: func(ctx context.Context, _ []byte) (*cloudresourcemanager.Service, error) {
		return cloudresourcemanager.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	}}
	return svc, srv.Close
}

func TestVerifySuccess(t *testing.T) {
	svc, done := fakeService(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"projectId": "demo", "name": "Demo Project"})
	})
	defer done()

	status := svc.Verify(context.Background(), "demo", nil)
	assert.True(t, status.OK)
	assert.Contains(t, status.Message, "Demo Project")
}

func TestVerifyPermissionDenied(t *testing.T) {
	svc, done := fakeService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"caller lacks permission"}}`))
	})
	defer done()

	status := svc.Verify(context.Background(), "demo", nil)
	assert.False(t, status.OK)
	assert.Contains(t, status.Message, "permission denied")
}

func TestVerifyRequiresProject(t *testing.T) {
	status := NewService().Verify(context.Background(), "", nil)
	assert.False(t, status.OK)
}
