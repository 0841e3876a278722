package utils

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/elC0mpa/cloud-doctor/model"
)

// CostTable renders the snapshot's cost breakdown, most expensive first
func CostTable(snapshot *model.InventorySnapshot) string {
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Inventory of %s", snapshot.AccountID))
	tw.AppendHeader(table.Row{"Kind", "Resource", "Monthly Cost"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, VAlignHeader: text.VAlignMiddle},
		{Number: 3, Align: text.AlignRight},
	})

	for _, item := range orderCostItems(snapshot.CostBreakdown) {
		tw.AppendRow(table.Row{
			text.FgBlue.Sprint(string(item.Kind)),
			item.Name,
			fmt.Sprintf("%.2f USD", item.Cost),
		})
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{
		"",
		text.FgHiGreen.Sprint("Total"),
		text.FgHiGreen.Sprintf("%.2f USD", snapshot.TotalMonthlyBill),
	})
	return tw.Render()
}

func orderCostItems(items []model.CostItem) []model.CostItem {
	sorted := append([]model.CostItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cost > sorted[j].Cost
	})
	return sorted
}
