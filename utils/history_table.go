package utils

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/elC0mpa/cloud-doctor/model"
)

// HistoryTable renders persisted runs, newest first as given
func HistoryTable(records []model.RunRecord) string {
	tw := table.NewWriter()
	tw.SetTitle("Run history")
	tw.AppendHeader(table.Row{"Run", "Project", "Finished", "Bill", "Potential", "Realized", "Actions"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	var potential, realized float64
	for _, r := range records {
		executed := 0
		for _, a := range r.Actions {
			if a.Status == model.StatusExecuted {
				executed++
			}
		}
		tw.AppendRow(table.Row{
			shortID(r.ID),
			r.AccountID,
			r.FinishedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f USD", r.TotalMonthlyBill),
			text.FgYellow.Sprintf("%.2f USD", r.PotentialSavings),
			text.FgGreen.Sprintf("%.2f USD", r.RealizedSavings),
			fmt.Sprintf("%d/%d", executed, len(r.Actions)),
		})
		potential += r.PotentialSavings
		realized += r.RealizedSavings
	}

	if len(records) > 1 {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{text.FgHiWhite.Sprint("TOTAL"), "", "", "", fmt.Sprintf("%.2f USD", potential), fmt.Sprintf("%.2f USD", realized), ""})
	}
	return tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
