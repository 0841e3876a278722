// Package agent runs the bounded negotiation with the reasoning service and
// turns its call requests into planned actions.
package agent

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
)

const (
	// MaxReplies bounds the acknowledgement rounds sent back to the
	// reasoning service.
	MaxReplies = 8

	// MinDatabaseDeleteConfidence is the lowest confidence accepted for a
	// DELETE_DATABASE call.
	MinDatabaseDeleteConfidence = 95
)

// Ack statuses sent back for each call request
const (
	AckQueued   = "queued"
	AckRejected = "rejected"
	AckError    = "error"
)

type agentService struct {
	reasoner   service.ReasoningService
	logger     zerolog.Logger
	maxReplies int
	newID      func() string
}

// Result is the outcome of one negotiation
type Result struct {
	Actions []model.PlannedAction
	Rounds  int
	Trace   []model.LogEntry
}

type AgentService interface {
	Negotiate(ctx context.Context, contexts []model.ResourceContext, intent, visualAnalysis string) Result
}
