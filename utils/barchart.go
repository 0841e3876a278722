package utils

import (
	"fmt"
	"sort"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/elC0mpa/cloud-doctor/model"
)

const (
	ColorRank1 = "#d73027"
	ColorRank2 = "#f46d43"
	ColorRank3 = "#fee08b"
	ColorRank4 = "#abdda4"
	ColorRank5 = "#66c2a5"
	ColorRank6 = "#1a9850"
)

var defaultStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#F4D060"))

// DrawSavingsChart prints potential savings per classification reason
func DrawSavingsChart(accountID string, byReason []model.SavingsByReason) {
	if len(byReason) == 0 {
		return
	}

	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🏥  CLOUD DOCTOR SAVINGS"))
	fmt.Printf(" Project: %s\n", text.FgBlue.Sprint(accountID))
	fmt.Println(text.FgHiBlue.Sprint(" ------------------------------------------------"))

	values := make([]float64, len(byReason))
	for i, r := range byReason {
		values[i] = r.Savings
	}
	indexedColors := assignRankedColors(values)

	bc := barchart.New(110, 18)
	for idx, r := range byReason {
		bc.Push(barchart.BarData{
			Label: barLabel(r),
			Values: []barchart.BarValue{
				{
					Name:  string(r.Reason),
					Value: r.Savings,
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(indexedColors[idx])),
				},
			},
		})
	}

	fmt.Println()
	bc.Draw()
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, defaultStyle.Render(bc.View())))
}

func barLabel(r model.SavingsByReason) string {
	return fmt.Sprintf("%s (%d): %.2f", r.Reason, r.Count, r.Savings)
}

// assignRankedColors colors the largest value with the first palette entry
func assignRankedColors(values []float64) []string {
	palette := []string{ColorRank1, ColorRank2, ColorRank3, ColorRank4, ColorRank5, ColorRank6}

	type valueWithIndex struct {
		index int
		value float64
	}

	toSort := make([]valueWithIndex, len(values))
	for i, v := range values {
		toSort[i] = valueWithIndex{index: i, value: v}
	}

	sort.SliceStable(toSort, func(i, j int) bool {
		return toSort[i].value > toSort[j].value
	})

	resultColors := make([]string, len(values))
	for rank, sorted := range toSort {
		if rank < len(palette) {
			resultColors[sorted.index] = palette[rank]
		}
	}

	return resultColors
}
