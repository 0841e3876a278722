package model

import "time"

// ActionType is the closed set of remediation actions the agent may propose
type ActionType string

const (
	ActionStopVM         ActionType = "STOP_VM"
	ActionRightsizeVM    ActionType = "RIGHTSIZE_VM"
	ActionDeleteDisk     ActionType = "DELETE_DISK"
	ActionDeleteDatabase ActionType = "DELETE_DATABASE"
	ActionDeleteService  ActionType = "DELETE_SERVICE"
)

// ActionTypes lists every action type in declaration order
var ActionTypes = []ActionType{
	ActionStopVM,
	ActionRightsizeVM,
	ActionDeleteDisk,
	ActionDeleteDatabase,
	ActionDeleteService,
}

// TargetKind returns the resource kind an action type operates on
func (t ActionType) TargetKind() (ResourceKind, bool) {
	switch t {
	case ActionStopVM, ActionRightsizeVM:
		return KindVM, true
	case ActionDeleteDisk:
		return KindDisk, true
	case ActionDeleteDatabase:
		return KindManagedDatabase, true
	case ActionDeleteService:
		return KindServerlessService, true
	}
	return "", false
}

// ActionStatus is the approval lifecycle of a planned action
type ActionStatus string

const (
	StatusPending  ActionStatus = "pending"
	StatusApproved ActionStatus = "approved"
	StatusRejected ActionStatus = "rejected"
	StatusExecuted ActionStatus = "executed"
)

// RightsizeDetail carries the before/after shapes of a RIGHTSIZE_VM action
type RightsizeDetail struct {
	CurrentMachineType string `json:"currentMachineType,omitempty"`
	TargetMachineType  string `json:"targetMachineType"`
}

// PlannedAction is a remediation proposed by the reasoning agent
type PlannedAction struct {
	ID            string           `json:"id"`
	Type          ActionType       `json:"type"`
	ResourceName  string           `json:"resourceName"`
	Location      string           `json:"location"`
	Confidence    int              `json:"confidence"`
	Justification string           `json:"justification"`
	Rightsize     *RightsizeDetail `json:"rightsize,omitempty"`
	Status        ActionStatus     `json:"status"`
	Command       string           `json:"command,omitempty"`
	ExecutedAt    *time.Time       `json:"executedAt,omitempty"`
}

// CanTransition reports whether the action may move to the given status.
// Executed and rejected are terminal for execution purposes, but a rejected
// action can still be re-approved before execution starts.
func (a PlannedAction) CanTransition(to ActionStatus) bool {
	switch to {
	case StatusApproved:
		return a.Status == StatusPending || a.Status == StatusRejected || a.Status == StatusApproved
	case StatusRejected:
		return a.Status == StatusPending || a.Status == StatusApproved || a.Status == StatusRejected
	case StatusExecuted:
		return a.Status == StatusApproved
	}
	return false
}
