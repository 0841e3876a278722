package response

import (
	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/classifier"
	"github.com/elC0mpa/cloud-doctor/service/projector"
	"github.com/elC0mpa/cloud-doctor/service/report"
)

// ConvertRun converts model.Run to response.Run
func ConvertRun(run model.Run) Run {
	out := Run{
		ID:               run.ID,
		Stage:            string(run.Stage),
		AccountID:        run.AccountID,
		Industry:         run.Industry,
		StartedAt:        run.StartedAt,
		FinishedAt:       run.FinishedAt,
		PotentialSavings: classifier.TotalSavings(run.Candidates),
		Report:           run.Report,
		Candidates:       []Candidate{},
		Actions:          []Action{},
		Logs:             []LogEntry{},
	}
	for _, s := range run.StageHistory {
		out.StageHistory = append(out.StageHistory, string(s))
	}
	if run.Snapshot != nil {
		out.ResourceCount = run.Snapshot.ResourceCount()
		out.TotalMonthlyBill = run.Snapshot.TotalMonthlyBill
	}
	for _, c := range run.Candidates {
		out.Candidates = append(out.Candidates, ConvertCandidate(c))
	}
	for _, a := range run.Actions {
		out.Actions = append(out.Actions, ConvertAction(a))
	}
	for _, l := range run.Logs {
		out.Logs = append(out.Logs, LogEntry{Time: l.Time, Level: string(l.Level), Message: l.Message})
	}
	return out
}

// ConvertCandidate converts model.Candidate to response.Candidate
func ConvertCandidate(c model.Candidate) Candidate {
	out := Candidate{
		Reason:           string(c.Reason),
		Kind:             string(c.Kind()),
		Name:             c.Name(),
		Detail:           c.Detail,
		PotentialSavings: c.PotentialSavings,
	}
	if c.Resource != nil {
		out.Location = c.Resource.ResourceLocation()
		out.URI = projector.URIScheme + projector.Key(c.Resource)
	}
	return out
}

// ConvertAction converts model.PlannedAction to response.Action
func ConvertAction(a model.PlannedAction) Action {
	out := Action{
		ID:            a.ID,
		Type:          string(a.Type),
		ResourceName:  a.ResourceName,
		Location:      a.Location,
		Confidence:    a.Confidence,
		Justification: a.Justification,
		Status:        string(a.Status),
		Command:       a.Command,
		ExecutedAt:    a.ExecutedAt,
	}
	if a.Rightsize != nil {
		out.TargetMachineType = a.Rightsize.TargetMachineType
	}
	return out
}

// ConvertReport builds the report view of a finished run
func ConvertReport(run model.Run) Report {
	return Report{
		RunID:            run.ID,
		AccountID:        run.AccountID,
		PotentialSavings: classifier.TotalSavings(run.Candidates),
		RealizedSavings:  report.RealizedSavings(run.Candidates, run.Actions),
		Text:             run.Report,
	}
}

// ConvertRecord converts a persisted model.RunRecord to response.HistoryEntry
func ConvertRecord(r model.RunRecord) HistoryEntry {
	out := HistoryEntry{
		ID:               r.ID,
		AccountID:        r.AccountID,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		TotalMonthlyBill: r.TotalMonthlyBill,
		PotentialSavings: r.PotentialSavings,
		RealizedSavings:  r.RealizedSavings,
		Candidates:       len(r.Candidates),
		Actions:          len(r.Actions),
	}
	for _, a := range r.Actions {
		if a.Status == model.StatusExecuted {
			out.Executed++
		}
	}
	return out
}

// ConvertConnectionStatus converts model.ConnectionStatus to response.ConnectionStatus
func ConvertConnectionStatus(projectID string, s model.ConnectionStatus) ConnectionStatus {
	return ConnectionStatus{ProjectID: projectID, OK: s.OK, Message: s.Message}
}
