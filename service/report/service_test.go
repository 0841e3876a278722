package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elC0mpa/cloud-doctor/model"
)

func candidates() []model.Candidate {
	vm := model.VM{Name: "trainer", Zone: "us-central1-a", MonthlyCost: 263}
	return []model.Candidate{
		{Reason: model.ReasonIdleCompute, PotentialSavings: 263, Resource: vm},
		{Reason: model.ReasonUnderutilizedGPU, PotentialSavings: 210.4, Resource: vm},
		{Reason: model.ReasonOrphanedAsset, PotentialSavings: 17, Resource: model.Disk{Name: "orphan"}},
	}
}

func TestNoWasteReport(t *testing.T) {
	text := NewService().GenerateReport(context.Background(), model.ReportInput{AccountID: "demo", TotalMonthlyBill: 120.5})

	assert.Contains(t, text, "No waste found")
	assert.Contains(t, text, "Realized savings: $0.00")
	assert.Contains(t, text, "$120.50")
}

func TestReportWithoutActions(t *testing.T) {
	text := NewService().GenerateReport(context.Background(), model.ReportInput{
		AccountID:  "demo",
		Industry:   "fintech",
		Candidates: candidates(),
	})

	assert.Contains(t, text, "fintech")
	assert.Contains(t, text, "Flagged resources: 3")
	assert.Contains(t, text, "No remediation actions were proposed")
	assert.Contains(t, text, "Realized savings: $0.00")
}

func TestRealizedSavingsCountsEachResourceOnce(t *testing.T) {
	actions := []model.PlannedAction{
		{Type: model.ActionStopVM, ResourceName: "trainer", Status: model.StatusExecuted},
		{Type: model.ActionDeleteDisk, ResourceName: "orphan", Status: model.StatusRejected},
	}

	assert.Equal(t, 263.0, RealizedSavings(candidates(), actions))
}

func TestRealizedSavingsRequiresMatchingKind(t *testing.T) {
	actions := []model.PlannedAction{{Type: model.ActionDeleteDisk, ResourceName: "trainer", Status: model.StatusExecuted}}
	assert.Equal(t, 0.0, RealizedSavings(candidates(), actions))
}

func TestReportListsActions(t *testing.T) {
	text := NewService().GenerateReport(context.Background(), model.ReportInput{
		AccountID:  "demo",
		Candidates: candidates(),
		Actions: []model.PlannedAction{
			{Type: model.ActionDeleteDisk, ResourceName: "orphan", Location: "us-central1-b", Confidence: 92, Status: model.StatusExecuted},
		},
		BilledSpend: &model.BilledSpend{DateInterval: model.DateInterval{Start: "2026-03-01", End: "2026-03-10"}, Amount: 88.1, Currency: "USD"},
	})

	assert.Contains(t, text, "DELETE_DISK")
	assert.Contains(t, text, "orphan")
	assert.Contains(t, text, "Realized savings: $17.00")
	assert.Contains(t, text, "88.10 USD")
}
