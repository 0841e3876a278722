package gcpinventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/elC0mpa/cloud-doctor/model"
	gcpcompute "github.com/elC0mpa/cloud-doctor/service/gcp/compute"
	gcpconfig "github.com/elC0mpa/cloud-doctor/service/gcp/config"
	gcpmonitoring "github.com/elC0mpa/cloud-doctor/service/gcp/monitoring"
	gcprun "github.com/elC0mpa/cloud-doctor/service/gcp/run"
	gcpsql "github.com/elC0mpa/cloud-doctor/service/gcp/sql"
)

func NewService(logger zerolog.Logger) *service {
	return &service{
		logger:     logger.With().Str("component", "gcp-inventory").Logger(),
		newClients: newClients,
	}
}

func newClients(ctx context.Context, projectID string, credentials []byte) (*clients, error) {
	cfg := gcpconfig.NewService(projectID, credentials)
	opts, err := cfg.ClientOptions(ctx)
	if err != nil {
		return nil, &model.InventoryError{Kind: model.ErrKindPermissionDenied, Message: "no usable Google Cloud credentials", Err: err}
	}
	projectID = cfg.GetProjectID()
	if projectID == "" {
		return nil, fmt.Errorf("project id is required for live inventory")
	}

	c := &clients{projectID: projectID}
	if c.compute, err = gcpcompute.NewService(ctx, projectID, opts...); err != nil {
		return nil, err
	}
	if c.sql, err = gcpsql.NewService(ctx, projectID, opts...); err != nil {
		return nil, err
	}
	if c.run, err = gcprun.NewService(ctx, projectID, opts...); err != nil {
		return nil, err
	}
	if c.monitoring, err = gcpmonitoring.NewService(ctx, projectID, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// FetchInventory lists compute, Cloud SQL and Cloud Run resources in
// parallel, then joins 7-day usage from Cloud Monitoring. A listing failure
// fails the fetch; a monitoring failure leaves usage unknown.
func (s *service) FetchInventory(ctx context.Context, req model.RunRequest) (*model.InventorySnapshot, error) {
	c, err := s.newClients(ctx, req.AccountID, req.Credentials)
	if err != nil {
		return nil, err
	}

	var (
		vms      []model.VM
		disks    []model.Disk
		dbs      []model.ManagedDatabase
		services []model.ServerlessService
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vms, err = c.compute.ListVMs(gctx)
		return classify(err, computeAPI, c.projectID)
	})
	g.Go(func() error {
		var err error
		disks, err = c.compute.ListDisks(gctx)
		return classify(err, computeAPI, c.projectID)
	})
	g.Go(func() error {
		var err error
		dbs, err = c.sql.ListDatabases(gctx)
		return classify(err, sqlAdminAPI, c.projectID)
	})
	g.Go(func() error {
		var err error
		services, err = c.run.ListServices(gctx)
		return classify(err, runAPI, c.projectID)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.joinUsage(ctx, c, vms, dbs, services)

	s.logger.Info().
		Str("project", c.projectID).
		Int("vms", len(vms)).
		Int("disks", len(disks)).
		Int("databases", len(dbs)).
		Int("services", len(services)).
		Msg("live inventory collected")
	return model.NewInventorySnapshot(c.projectID, vms, disks, dbs, services), nil
}

func (s *service) joinUsage(ctx context.Context, c *clients, vms []model.VM, dbs []model.ManagedDatabase, services []model.ServerlessService) {
	var (
		cpu      map[string]float64
		conns    map[string]float64
		requests map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if cpu, err = c.monitoring.CPUAverages(gctx); err != nil {
			cpu = nil
			s.logger.Warn().Err(classify(err, monitoringAPI, c.projectID)).Msg("CPU usage unavailable")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if conns, err = c.monitoring.ConnectionAverages(gctx); err != nil {
			conns = nil
			s.logger.Warn().Err(classify(err, monitoringAPI, c.projectID)).Msg("database connections unavailable")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if requests, err = c.monitoring.RequestCounts(gctx); err != nil {
			requests = nil
			s.logger.Warn().Err(classify(err, monitoringAPI, c.projectID)).Msg("request counts unavailable")
		}
		return nil
	})
	_ = g.Wait()

	JoinUsage(vms, dbs, services, cpu, conns, requests)
}

// JoinUsage copies usage signals onto records in place. A nil map means
// the signal could not be collected and leaves the records unknown; a
// record absent from a collected map had no usage at all. Stopped VMs
// report no CPU series and keep an unknown value.
func JoinUsage(vms []model.VM, dbs []model.ManagedDatabase, services []model.ServerlessService,
	cpu map[string]float64, conns map[string]float64, requests map[string]int64) {
	if cpu != nil {
		for i := range vms {
			if v, ok := cpu[vms[i].Name]; ok {
				vms[i].CPUAverage7d = v
			}
		}
	}
	if conns != nil {
		for i := range dbs {
			dbs[i].ConnectionsAverage7d = conns[dbs[i].Name]
		}
	}
	if requests != nil {
		for i := range services {
			services[i].RequestCount7d = requests[services[i].Name]
		}
	}
}
