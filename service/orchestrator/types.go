package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
	"github.com/elC0mpa/cloud-doctor/service/agent"
)

var (
	ErrRunActive           = errors.New("a run is already in progress")
	ErrNotAwaitingDecision = errors.New("run is not awaiting approval")
	ErrNothingApproved     = errors.New("no approved actions to execute")
	ErrInvalidTransition   = errors.New("invalid stage transition")
)

// Dependencies wires the collaborators of the run state machine. Vision,
// Billing and Reporter are optional.
type Dependencies struct {
	Inventory service.InventoryService
	Agent     agent.AgentService
	Executor  service.Executor
	Vision    service.VisionService
	Reporter  service.ReportService
	Billing   service.BillingService
	Events    service.EventPublisher
	Store     service.RunStore
	Metrics   service.Metrics
	Logger    zerolog.Logger
}

type orchestratorService struct {
	inventory service.InventoryService
	agent     agent.AgentService
	executor  service.Executor
	vision    service.VisionService
	reporter  service.ReportService
	billing   service.BillingService
	events    service.EventPublisher
	store     service.RunStore
	metrics   service.Metrics
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time

	mu  sync.Mutex
	run model.Run
}

type OrchestratorService interface {
	Start(ctx context.Context, req model.RunRequest) (model.Run, error)
	Approve(id string) (model.Run, error)
	Reject(id string) (model.Run, error)
	ApproveAll() (model.Run, error)
	Execute(ctx context.Context) (model.Run, error)
	Dismiss(ctx context.Context) (model.Run, error)
	Current() model.Run
	Contexts() []model.ResourceContext
}
