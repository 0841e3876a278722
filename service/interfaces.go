package service

import (
	"context"

	"github.com/elC0mpa/cloud-doctor/model"
)

// InventoryService acquires a normalized inventory snapshot for a run
type InventoryService interface {
	FetchInventory(ctx context.Context, req model.RunRequest) (*model.InventorySnapshot, error)
}

// VerificationService checks that credentials can reach an account
type VerificationService interface {
	Verify(ctx context.Context, accountID string, credentials []byte) model.ConnectionStatus
}

// ReasoningService is the external tool-calling capability. Each call is
// stateless: the full history travels with the request.
type ReasoningService interface {
	Generate(ctx context.Context, req model.ReasoningRequest) (*model.ReasoningResponse, error)
}

// VisionService describes an uploaded architecture image. It never fails;
// errors degrade to a neutral placeholder.
type VisionService interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) string
}

// ReportService writes the closing narrative of a run. It never fails.
type ReportService interface {
	GenerateReport(ctx context.Context, in model.ReportInput) string
}

// BillingService provides billed spend for the current month
type BillingService interface {
	GetMonthToDateSpend(ctx context.Context) (*model.BilledSpend, error)
}

// Executor performs one approved remediation
type Executor interface {
	Execute(ctx context.Context, action model.PlannedAction) error
}

// EventPublisher emits run lifecycle events. Publishing is fire-and-forget.
type EventPublisher interface {
	Publish(event string, payload any)
	Close()
}

// RunStore persists finished runs
type RunStore interface {
	SaveRun(record model.RunRecord) error
	GetRun(id string) (*model.RunRecord, error)
	ListRuns(limit int) ([]model.RunRecord, error)
	Close() error
}

// Metrics records pipeline measurements
type Metrics interface {
	StageTransition(from, to model.Stage)
	RunFinished(outcome string, potentialSavings float64)
	ActionsProposed(actions []model.PlannedAction)
	ActionExecuted(actionType model.ActionType)
	NegotiationRounds(rounds int)
}
