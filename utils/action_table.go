package utils

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/elC0mpa/cloud-doctor/model"
)

// ActionTable renders the planned actions with their approval status.
// Rows are numbered from 1 for interactive selection.
func ActionTable(actions []model.PlannedAction) string {
	tw := table.NewWriter()
	tw.SetTitle("Planned actions")
	tw.AppendHeader(table.Row{"#", "Action", "Resource", "Location", "Confidence", "Status", "Justification"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 7, WidthMax: 60},
	})

	for i, a := range actions {
		action := string(a.Type)
		if a.Rightsize != nil {
			action = fmt.Sprintf("%s -> %s", action, a.Rightsize.TargetMachineType)
		}
		tw.AppendRow(table.Row{
			i + 1,
			action,
			a.ResourceName,
			a.Location,
			fmt.Sprintf("%d%%", a.Confidence),
			statusColor(a.Status).Sprint(string(a.Status)),
			a.Justification,
		})
	}
	return tw.Render()
}

// LogLines formats run log entries one per line
func LogLines(entries []model.LogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s %s\n", e.Time.Format("15:04:05"), levelColor(e.Level).Sprintf("%-7s", strings.ToUpper(string(e.Level))), e.Message)
	}
	return b.String()
}

func statusColor(status model.ActionStatus) text.Color {
	switch status {
	case model.StatusApproved:
		return text.FgHiBlue
	case model.StatusRejected:
		return text.FgRed
	case model.StatusExecuted:
		return text.FgHiGreen
	default:
		return text.FgYellow
	}
}

func levelColor(level model.LogLevel) text.Color {
	switch level {
	case model.LogWarn:
		return text.FgYellow
	case model.LogError:
		return text.FgRed
	case model.LogSuccess:
		return text.FgGreen
	default:
		return text.FgBlue
	}
}
