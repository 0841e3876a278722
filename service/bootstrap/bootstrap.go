// Package bootstrap wires the collaborators shared by the CLI and the MCP
// server from a loaded configuration.
package bootstrap

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/config"
	"github.com/elC0mpa/cloud-doctor/service"
	"github.com/elC0mpa/cloud-doctor/service/agent"
	"github.com/elC0mpa/cloud-doctor/service/events"
	"github.com/elC0mpa/cloud-doctor/service/executor"
	gcpbilling "github.com/elC0mpa/cloud-doctor/service/gcp/billing"
	gcpconfig "github.com/elC0mpa/cloud-doctor/service/gcp/config"
	gcpidentity "github.com/elC0mpa/cloud-doctor/service/gcp/identity"
	gcpinventory "github.com/elC0mpa/cloud-doctor/service/gcp/inventory"
	"github.com/elC0mpa/cloud-doctor/service/gemini"
	"github.com/elC0mpa/cloud-doctor/service/inventory"
	"github.com/elC0mpa/cloud-doctor/service/metrics"
	"github.com/elC0mpa/cloud-doctor/service/orchestrator"
	"github.com/elC0mpa/cloud-doctor/service/storage"
	"github.com/elC0mpa/cloud-doctor/service/telemetry"
)

// Version is reported to tracing and the MCP handshake
const Version = "1.0.0"

// Runtime is a wired pipeline and the resources it owns
type Runtime struct {
	Orchestrator orchestrator.OrchestratorService
	Verifier     service.VerificationService
	Store        service.RunStore
	Metrics      *metrics.PrometheusMetrics
	Logger       zerolog.Logger

	events   service.EventPublisher
	shutdown telemetry.Shutdown
}

// Build wires every collaborator. Optional backends (badger, NATS, Gemini,
// billing) degrade to local fallbacks when they cannot be reached. A nil
// exec uses the simulated executor.
func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger, exec service.Executor) (*Runtime, error) {
	shutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, Version, cfg.OTELInsecure)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Verifier: gcpidentity.NewService(),
		Metrics:  metrics.NewPrometheusMetrics(),
		Logger:   logger,
		shutdown: shutdown,
	}

	if cfg.DataDir != "" {
		store, err := storage.NewBadgerStore(filepath.Join(cfg.DataDir, "runs"))
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.DataDir).Msg("run history falls back to memory")
			rt.Store = storage.NewMemoryStore()
		} else {
			rt.Store = store
		}
	} else {
		rt.Store = storage.NewMemoryStore()
	}

	rt.events = events.NopPublisher{}
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn().Err(err).Str("url", cfg.NATSURL).Msg("events disabled")
		} else {
			rt.events = pub
		}
	}

	deps := orchestrator.Dependencies{
		Inventory: inventory.NewService(gcpinventory.NewService(logger), logger),
		Executor:  exec,
		Events:    rt.events,
		Store:     rt.Store,
		Metrics:   rt.Metrics,
		Logger:    logger,
	}
	if deps.Executor == nil {
		deps.Executor = executor.NewSimulatedExecutor(cfg.SimulatedDelay, logger)
	}

	if cfg.HasGemini() {
		client := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, cfg.GeminiTimeout, logger)
		deps.Agent = agent.NewService(client, logger)
		deps.Vision = client
		deps.Reporter = client
	} else {
		logger.Info().Msg("GEMINI_API_KEY not set: no actions will be proposed")
		deps.Agent = agent.NewService(nil, logger)
	}

	if cfg.HasBilling() {
		if billing, err := newBilling(ctx, cfg); err != nil {
			logger.Warn().Err(err).Msg("billed spend disabled")
		} else {
			deps.Billing = billing
		}
	}

	rt.Orchestrator = orchestrator.NewService(deps)
	return rt, nil
}

func newBilling(ctx context.Context, cfg config.Config) (service.BillingService, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	opts, err := gcpconfig.NewService(cfg.ProjectID, creds).ClientOptions(ctx)
	if err != nil {
		return nil, err
	}
	return gcpbilling.NewService(ctx, cfg.ProjectID, cfg.BillingDataset, cfg.BillingAccount, opts...)
}

// Close releases the store, the event connection and the tracer
func (rt *Runtime) Close(ctx context.Context) error {
	rt.events.Close()
	return errors.Join(rt.Store.Close(), rt.shutdown(ctx))
}
