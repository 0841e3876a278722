package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/classifier"
	"github.com/elC0mpa/cloud-doctor/service/report"
)

// GenerateReport asks the model for an executive summary of the run.
// Failures return ReportUnavailable.
func (c *Client) GenerateReport(ctx context.Context, in model.ReportInput) string {
	prompt, err := reportPrompt(in)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to build report prompt")
		return ReportUnavailable
	}

	resp, err := c.generate(ctx, generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}})
	if err != nil {
		c.logger.Warn().Err(err).Msg("report generation failed")
		return ReportUnavailable
	}
	if text := resp.text(); text != "" {
		return text
	}
	return ReportUnavailable
}

type reportFacts struct {
	AccountID        string                  `json:"accountId"`
	Industry         string                  `json:"industry,omitempty"`
	TotalMonthlyBill float64                 `json:"totalMonthlyBill"`
	PotentialSavings float64                 `json:"potentialSavings"`
	RealizedSavings  float64                 `json:"realizedSavings"`
	ByReason         []model.SavingsByReason `json:"byReason"`
	Actions          []model.PlannedAction   `json:"actions"`
	BilledSpend      *model.BilledSpend      `json:"billedSpend,omitempty"`
}

func reportPrompt(in model.ReportInput) (string, error) {
	facts := reportFacts{
		AccountID:        in.AccountID,
		Industry:         in.Industry,
		TotalMonthlyBill: in.TotalMonthlyBill,
		PotentialSavings: classifier.TotalSavings(in.Candidates),
		RealizedSavings:  report.RealizedSavings(in.Candidates, in.Actions),
		ByReason:         classifier.SavingsByReason(in.Candidates),
		Actions:          in.Actions,
		BilledSpend:      in.BilledSpend,
	}
	raw, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return "", err
	}

	industry := "a general"
	if in.Industry != "" {
		industry = "the " + in.Industry
	}
	guidance := "Write a short executive summary of this cloud cost review for " + industry + " audience. " +
		"State the potential and realized monthly savings in USD and mention rejected or pending actions."
	if len(in.Candidates) == 0 {
		guidance = "No waste was found in this review. Write two sentences confirming the project is in good shape."
	}
	return fmt.Sprintf("%s\n\nFacts:\n%s", guidance, raw), nil
}
