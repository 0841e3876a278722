package model

import "time"

// Stage is a pipeline stage of a run
type Stage string

const (
	StageIdle        Stage = "idle"
	StageIngesting   Stage = "ingesting"
	StageIdentifying Stage = "identifying"
	StageReasoning   Stage = "reasoning"
	StageApproval    Stage = "approval"
	StageExecuting   Stage = "executing"
	StageReporting   Stage = "reporting"
	StageFinished    Stage = "finished"
)

// Active reports whether a run in this stage blocks a new run from starting
func (s Stage) Active() bool {
	return s != StageIdle && s != StageFinished && s != ""
}

// LogLevel of a run log entry
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarn    LogLevel = "warn"
	LogError   LogLevel = "error"
	LogSuccess LogLevel = "success"
)

// LogEntry is a human-readable trace line attached to a run
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}

// RunRequest is the user-supplied configuration of a run
type RunRequest struct {
	AccountID   string
	Intent      string
	Industry    string
	Mode        InventoryMode
	FilePath    string
	Credentials []byte
	Seed        int64
	Image       []byte
	ImageMIME   string
}

// Run is the single mutable pipeline state. It is only changed through the
// orchestrator's transition function.
type Run struct {
	ID           string             `json:"id"`
	Stage        Stage              `json:"stage"`
	StageHistory []Stage            `json:"stageHistory"`
	AccountID    string             `json:"accountId"`
	Intent       string             `json:"intent"`
	Industry     string             `json:"industry"`
	StartedAt    time.Time          `json:"startedAt"`
	FinishedAt   *time.Time         `json:"finishedAt,omitempty"`
	Snapshot     *InventorySnapshot `json:"snapshot,omitempty"`
	Candidates   []Candidate        `json:"candidates"`
	Actions      []PlannedAction    `json:"actions"`
	Report       string             `json:"report"`
	Logs         []LogEntry         `json:"logs"`
}

// RunRecord is the persisted summary of a finished run
type RunRecord struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	Industry         string          `json:"industry"`
	StartedAt        time.Time       `json:"startedAt"`
	FinishedAt       time.Time       `json:"finishedAt"`
	StageHistory     []Stage         `json:"stageHistory"`
	TotalMonthlyBill float64         `json:"totalMonthlyBill"`
	PotentialSavings float64         `json:"potentialSavings"`
	RealizedSavings  float64         `json:"realizedSavings"`
	Candidates       []Candidate     `json:"candidates"`
	Actions          []PlannedAction `json:"actions"`
	Report           string          `json:"report"`
}

// ReportInput is everything the reporting collaborator may use
type ReportInput struct {
	AccountID        string
	Industry         string
	Candidates       []Candidate
	Actions          []PlannedAction
	TotalMonthlyBill float64
	BilledSpend      *BilledSpend
}
