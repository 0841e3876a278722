package gcpinventory

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/classifier"
)

type fakeCompute struct {
	vms   []model.VM
	disks []model.Disk
	err   error
}

func (f *fakeCompute) ListVMs(context.Context) ([]model.VM, error)     { return f.vms, f.err }
func (f *fakeCompute) ListDisks(context.Context) ([]model.Disk, error) { return f.disks, nil }

type fakeSQL struct{ dbs []model.ManagedDatabase }

func (f *fakeSQL) ListDatabases(context.Context) ([]model.ManagedDatabase, error) { return f.dbs, nil }

type fakeRun struct{ services []model.ServerlessService }

func (f *fakeRun) ListServices(context.Context) ([]model.ServerlessService, error) {
	return f.services, nil
}

type fakeMonitoring struct {
	cpu      map[string]float64
	conns    map[string]float64
	requests map[string]int64
	err      error
}

func (f *fakeMonitoring) CPUAverages(context.Context) (map[string]float64, error) {
	return f.cpu, f.err
}

func (f *fakeMonitoring) ConnectionAverages(context.Context) (map[string]float64, error) {
	if f.err != nil {
		return map[string]float64{}, f.err
	}
	return f.conns, nil
}

func (f *fakeMonitoring) RequestCounts(context.Context) (map[string]int64, error) {
	if f.err != nil {
		return map[string]int64{}, f.err
	}
	return f.requests, nil
}

func newFake(c *clients) *service {
	s := NewService(zerolog.Nop())
	s.newClients = func(context.Context, string, []byte) (*clients, error) { return c, nil }
	return s
}

func resources() (*fakeCompute, *fakeSQL, *fakeRun) {
	return &fakeCompute{
			vms: []model.VM{
				{Name: "web-01", Status: model.VMStatusRunning, CPUAverage7d: model.UnknownUsage, MonthlyCost: 97.8},
				{Name: "stopped", Status: model.VMStatusTerminated, CPUAverage7d: model.UnknownUsage, MonthlyCost: 24.46},
			},
		},
		&fakeSQL{dbs: []model.ManagedDatabase{{Name: "legacy-db", State: model.DBStateRunnable, ConnectionsAverage7d: model.UnknownUsage, MonthlyCost: 51.1}}},
		&fakeRun{services: []model.ServerlessService{{Name: "hook", RequestCount7d: model.UnknownUsage, MonthlyCost: 49.25}}}
}

func TestFetchJoinsUsage(t *testing.T) {
	compute, sql, run := resources()
	s := newFake(&clients{
		projectID: "demo",
		compute:   compute,
		sql:       sql,
		run:       run,
		monitoring: &fakeMonitoring{
			cpu:      map[string]float64{"web-01": 0.02},
			conns:    map[string]float64{},
			requests: map[string]int64{"hook": 12},
		},
	})

	snap, err := s.FetchInventory(context.Background(), model.RunRequest{AccountID: "demo"})
	require.NoError(t, err)

	assert.Equal(t, 0.02, snap.VMs[0].CPUAverage7d)
	assert.Equal(t, float64(model.UnknownUsage), snap.VMs[1].CPUAverage7d)
	assert.Equal(t, 0.0, snap.Databases[0].ConnectionsAverage7d)
	assert.Equal(t, int64(12), snap.Services[0].RequestCount7d)
	assert.Equal(t, 222.61, snap.TotalMonthlyBill)
}

func TestMonitoringFailureNeverFabricatesWaste(t *testing.T) {
	compute, sql, run := resources()
	s := newFake(&clients{
		projectID:  "demo",
		compute:    compute,
		sql:        sql,
		run:        run,
		monitoring: &fakeMonitoring{err: errors.New("monitoring down")},
	})

	snap, err := s.FetchInventory(context.Background(), model.RunRequest{AccountID: "demo"})
	require.NoError(t, err)
	assert.Empty(t, classifier.Classify(snap, snap.CollectedAt))
}

func TestListingFailureIsClassified(t *testing.T) {
	compute, sql, run := resources()
	compute.err = &googleapi.Error{
		Code:    http.StatusForbidden,
		Message: "Compute Engine API has not been used in project demo before or it is disabled.",
		Details: []any{map[string]any{
			"reason":   "SERVICE_DISABLED",
			"metadata": map[string]any{"activationUrl": "https://console.developers.google.com/apis/api/compute.googleapis.com/overview?project=demo"},
		}},
	}
	s := newFake(&clients{projectID: "demo", compute: compute, sql: sql, run: run, monitoring: &fakeMonitoring{}})

	_, err := s.FetchInventory(context.Background(), model.RunRequest{AccountID: "demo"})
	require.Error(t, err)

	invErr, ok := model.AsInventoryError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrKindPermissionDenied, invErr.Kind)
	assert.Equal(t, "https://console.developers.google.com/apis/api/compute.googleapis.com/overview?project=demo", invErr.HintURL)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil, computeAPI, "demo"))

	disabled := classify(&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "accessNotConfigured"}}}, runAPI, "demo")
	invErr, ok := model.AsInventoryError(disabled)
	require.True(t, ok)
	assert.Equal(t, EnableURL(runAPI, "demo"), invErr.HintURL)

	iam := classify(&googleapi.Error{Code: 403, Message: "caller does not have permission"}, runAPI, "demo")
	invErr, _ = model.AsInventoryError(iam)
	assert.Equal(t, model.ErrKindPermissionDenied, invErr.Kind)
	assert.Empty(t, invErr.HintURL)

	unavailable := classify(&googleapi.Error{Code: 503}, sqlAdminAPI, "demo")
	invErr, _ = model.AsInventoryError(unavailable)
	assert.Equal(t, model.ErrKindNetworkUnreachable, invErr.Kind)

	bad := classify(&googleapi.Error{Code: 400, Message: "bad filter"}, monitoringAPI, "demo")
	invErr, _ = model.AsInventoryError(bad)
	assert.Equal(t, model.ErrKindMalformedResponse, invErr.Kind)

	timeout := classify(context.DeadlineExceeded, computeAPI, "demo")
	invErr, _ = model.AsInventoryError(timeout)
	assert.Equal(t, model.ErrKindNetworkUnreachable, invErr.Kind)
}
