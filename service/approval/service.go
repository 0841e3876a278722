// Package approval holds the human decision step between proposal and
// execution.
package approval

import (
	"github.com/elC0mpa/cloud-doctor/model"
)

// Approve marks the action with the given id approved. Unknown ids and
// executed actions are left untouched. The input slice is not modified.
func Approve(actions []model.PlannedAction, id string) ([]model.PlannedAction, bool) {
	return decide(actions, id, model.StatusApproved)
}

// Reject marks the action with the given id rejected
func Reject(actions []model.PlannedAction, id string) ([]model.PlannedAction, bool) {
	return decide(actions, id, model.StatusRejected)
}

// ApproveAll approves every pending action
func ApproveAll(actions []model.PlannedAction) []model.PlannedAction {
	out := clone(actions)
	for i := range out {
		if out[i].Status == model.StatusPending {
			out[i].Status = model.StatusApproved
		}
	}
	return out
}

// Approved returns the approved actions in list order
func Approved(actions []model.PlannedAction) []model.PlannedAction {
	var out []model.PlannedAction
	for _, a := range actions {
		if a.Status == model.StatusApproved {
			out = append(out, a)
		}
	}
	return out
}

// Find returns the action with the given id
func Find(actions []model.PlannedAction, id string) (model.PlannedAction, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return model.PlannedAction{}, false
}

func decide(actions []model.PlannedAction, id string, to model.ActionStatus) ([]model.PlannedAction, bool) {
	for i, a := range actions {
		if a.ID != id {
			continue
		}
		if !a.CanTransition(to) {
			return actions, false
		}
		out := clone(actions)
		out[i].Status = to
		return out, a.Status != to
	}
	return actions, false
}

func clone(actions []model.PlannedAction) []model.PlannedAction {
	if actions == nil {
		return nil
	}
	out := make([]model.PlannedAction, len(actions))
	copy(out, actions)
	return out
}
