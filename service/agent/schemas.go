package agent

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elC0mpa/cloud-doctor/model"
)

const (
	argResourceName       = "resource_name"
	argLocation           = "location"
	argConfidence         = "confidence"
	argJustification      = "justification"
	argTargetMachineType  = "target_machine_type"
	argCurrentMachineType = "current_machine_type"
)

// ToolName returns the declared schema name of an action type
func ToolName(t model.ActionType) string {
	switch t {
	case model.ActionStopVM:
		return "stop_vm"
	case model.ActionRightsizeVM:
		return "rightsize_vm"
	case model.ActionDeleteDisk:
		return "delete_disk"
	case model.ActionDeleteDatabase:
		return "delete_database"
	case model.ActionDeleteService:
		return "delete_service"
	}
	panic(fmt.Sprintf("no schema for action type %q", t))
}

// ActionTypeFor resolves a declared schema name back to its action type
func ActionTypeFor(toolName string) (model.ActionType, bool) {
	for _, t := range model.ActionTypes {
		if ToolName(t) == toolName {
			return t, true
		}
	}
	return "", false
}

// Schemas returns the fixed set of action schemas declared to the reasoning
// service, one per action type.
func Schemas() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(model.ActionTypes))
	for _, t := range model.ActionTypes {
		tools = append(tools, schemaFor(t))
	}
	return tools
}

func schemaFor(t model.ActionType) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(describe(t))}
	opts = append(opts, commonArgs(t)...)

	if t == model.ActionRightsizeVM {
		opts = append(opts,
			mcp.WithString(argTargetMachineType, mcp.Description("Machine type to resize to, e.g. e2-standard-2"), mcp.Required()),
			mcp.WithString(argCurrentMachineType, mcp.Description("Machine type the instance runs today")),
		)
	}
	return mcp.NewTool(ToolName(t), opts...)
}

func commonArgs(t model.ActionType) []mcp.ToolOption {
	locationHint := "Zone of the resource, e.g. us-central1-a"
	if kind, _ := t.TargetKind(); kind == model.KindManagedDatabase || kind == model.KindServerlessService {
		locationHint = "Region of the resource, e.g. us-central1"
	}
	return []mcp.ToolOption{
		mcp.WithString(argResourceName, mcp.Description("Name of the target resource"), mcp.Required()),
		mcp.WithString(argLocation, mcp.Description(locationHint), mcp.Required()),
		mcp.WithNumber(argConfidence, mcp.Description("Confidence score from 0 to 100"), mcp.Min(0), mcp.Max(100), mcp.Required()),
		mcp.WithString(argJustification, mcp.Description("Why this action is safe and worth taking"), mcp.Required()),
	}
}

func describe(t model.ActionType) string {
	switch t {
	case model.ActionStopVM:
		return "Stop an idle Compute Engine instance"
	case model.ActionRightsizeVM:
		return "Resize an over-provisioned Compute Engine instance to a smaller machine type"
	case model.ActionDeleteDisk:
		return "Delete an orphaned persistent disk"
	case model.ActionDeleteDatabase:
		return "Delete an unused Cloud SQL instance. Requires confidence of at least 95"
	case model.ActionDeleteService:
		return "Delete a Cloud Run service that receives no traffic"
	}
	return string(t)
}
