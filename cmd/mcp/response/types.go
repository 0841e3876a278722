package response

import "time"

// Candidate is a flagged resource with its potential savings
type Candidate struct {
	Reason           string  `json:"reason"`
	Kind             string  `json:"kind"`
	Name             string  `json:"name"`
	Location         string  `json:"location"`
	Detail           string  `json:"detail"`
	PotentialSavings float64 `json:"potential_savings"`
	URI              string  `json:"uri"`
}

// Action is a planned remediation and its approval status
type Action struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	ResourceName      string     `json:"resource_name"`
	Location          string     `json:"location"`
	Confidence        int        `json:"confidence"`
	Justification     string     `json:"justification"`
	TargetMachineType string     `json:"target_machine_type,omitempty"`
	Status            string     `json:"status"`
	Command           string     `json:"command,omitempty"`
	ExecutedAt        *time.Time `json:"executed_at,omitempty"`
}

// LogEntry is one line of the run trace
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Run is the state of the current pipeline run
type Run struct {
	ID               string      `json:"id"`
	Stage            string      `json:"stage"`
	StageHistory     []string    `json:"stage_history"`
	AccountID        string      `json:"account_id"`
	Industry         string      `json:"industry,omitempty"`
	StartedAt        time.Time   `json:"started_at"`
	FinishedAt       *time.Time  `json:"finished_at,omitempty"`
	ResourceCount    int         `json:"resource_count"`
	TotalMonthlyBill float64     `json:"total_monthly_bill"`
	PotentialSavings float64     `json:"potential_savings"`
	Candidates       []Candidate `json:"candidates"`
	Actions          []Action    `json:"actions"`
	Report           string      `json:"report,omitempty"`
	Logs             []LogEntry  `json:"logs"`
}

// Report is the closing report of a finished run
type Report struct {
	RunID            string  `json:"run_id"`
	AccountID        string  `json:"account_id"`
	PotentialSavings float64 `json:"potential_savings"`
	RealizedSavings  float64 `json:"realized_savings"`
	Text             string  `json:"text"`
}

// HistoryEntry summarizes a persisted run
type HistoryEntry struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	TotalMonthlyBill float64   `json:"total_monthly_bill"`
	PotentialSavings float64   `json:"potential_savings"`
	RealizedSavings  float64   `json:"realized_savings"`
	Candidates       int       `json:"candidates"`
	Actions          int       `json:"actions"`
	Executed         int       `json:"executed"`
}

// ConnectionStatus is the result of a credential check
type ConnectionStatus struct {
	ProjectID string `json:"project_id"`
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
}
