package utils

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/elC0mpa/cloud-doctor/model"
)

// CandidateTable renders the flagged resources with their savings
func CandidateTable(accountID string, candidates []model.Candidate) string {
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Waste candidates in %s", accountID))
	tw.AppendHeader(table.Row{"Reason", "Kind", "Resource", "Location", "Detail", "Savings"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 48},
		{Number: 6, Align: text.AlignRight},
	})

	var total float64
	for _, c := range candidates {
		location := ""
		if c.Resource != nil {
			location = c.Resource.ResourceLocation()
		}
		tw.AppendRow(table.Row{
			reasonColor(c.Reason).Sprint(string(c.Reason)),
			string(c.Kind()),
			c.Name(),
			location,
			c.Detail,
			fmt.Sprintf("%.2f USD", c.PotentialSavings),
		})
		total += c.PotentialSavings
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{"", "", "", "", text.FgHiRed.Sprint("Potential savings"), text.FgHiRed.Sprintf("%.2f USD", total)})
	return tw.Render()
}

func reasonColor(reason model.ReasonCode) text.Color {
	switch reason {
	case model.ReasonIdleCompute, model.ReasonIdleDatabase, model.ReasonZombieService:
		return text.FgRed
	case model.ReasonOrphanedAsset:
		return text.FgYellow
	default:
		return text.FgHiYellow
	}
}
