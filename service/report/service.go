package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/classifier"
)

func NewService() *reportService {
	return &reportService{}
}

// GenerateReport renders a deterministic plain-text report
func (s *reportService) GenerateReport(_ context.Context, in model.ReportInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cloud waste report for %s", in.AccountID)
	if in.Industry != "" {
		fmt.Fprintf(&b, " (%s)", in.Industry)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Estimated monthly bill: $%.2f\n", in.TotalMonthlyBill)
	if in.BilledSpend != nil {
		fmt.Fprintf(&b, "Billed %s to %s: %.2f %s\n", in.BilledSpend.Start, in.BilledSpend.End, in.BilledSpend.Amount, in.BilledSpend.Currency)
	}

	if len(in.Candidates) == 0 {
		b.WriteString("\n" + NoWasteMessage + "\n")
		fmt.Fprintf(&b, "Realized savings: $%.2f/month\n", 0.0)
		return b.String()
	}

	fmt.Fprintf(&b, "Flagged resources: %d, potential savings $%.2f/month\n\n",
		len(in.Candidates), classifier.TotalSavings(in.Candidates))
	for _, group := range classifier.SavingsByReason(in.Candidates) {
		fmt.Fprintf(&b, "  %-18s %3d  $%.2f\n", group.Reason, group.Count, group.Savings)
	}

	b.WriteString("\n")
	if len(in.Actions) == 0 {
		b.WriteString("No remediation actions were proposed.\n")
	} else {
		b.WriteString(actionsTable(in.Actions))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Realized savings: $%.2f/month\n", RealizedSavings(in.Candidates, in.Actions))
	return b.String()
}

// RealizedSavings sums, per resource, the largest potential saving among its
// candidates, for resources targeted by an executed action of the matching
// kind. Rejected and pending actions never count. Unlike a plain sum of
// candidate savings, a resource flagged for several reasons counts once.
func RealizedSavings(candidates []model.Candidate, actions []model.PlannedAction) float64 {
	executed := map[string]bool{}
	for _, a := range actions {
		if a.Status != model.StatusExecuted {
			continue
		}
		if kind, ok := a.Type.TargetKind(); ok {
			executed[string(kind)+"/"+a.ResourceName] = true
		}
	}

	best := map[string]float64{}
	var order []string
	for _, c := range candidates {
		key := string(c.Kind()) + "/" + c.Name()
		if !executed[key] {
			continue
		}
		prev, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || c.PotentialSavings > prev {
			best[key] = c.PotentialSavings
		}
	}

	items := make([]model.CostItem, 0, len(order))
	for _, key := range order {
		items = append(items, model.CostItem{Name: key, Cost: best[key]})
	}
	return model.SumCosts(items)
}

func actionsTable(actions []model.PlannedAction) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Action", "Target", "Location", "Confidence", "Status"})
	for _, a := range actions {
		tw.AppendRow(table.Row{a.Type, a.ResourceName, a.Location, a.Confidence, a.Status})
	}
	tw.SetStyle(table.StyleLight)
	return tw.Render()
}
