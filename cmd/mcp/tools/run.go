package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/cloud-doctor/cmd/mcp/response"
	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
	"github.com/elC0mpa/cloud-doctor/service/orchestrator"
)

const defaultHistoryLimit = 20

// Defaults fill in run options the caller leaves out
type Defaults struct {
	ProjectID   string
	Mode        model.InventoryMode
	Industry    string
	Credentials []byte
}

// Handlers serve the run tools over one orchestrator
type Handlers struct {
	orchestrator orchestrator.OrchestratorService
	store        service.RunStore
	verifier     service.VerificationService
	defaults     Defaults
	onContexts   func([]model.ResourceContext)
}

func NewHandlers(orch orchestrator.OrchestratorService, store service.RunStore, verifier service.VerificationService, defaults Defaults) *Handlers {
	return &Handlers{
		orchestrator: orch,
		store:        store,
		verifier:     verifier,
		defaults:     defaults,
		onContexts:   func([]model.ResourceContext) {},
	}
}

// RegisterRunTools registers the pipeline tools with the MCP server
func RegisterRunTools(s *server.MCPServer, h *Handlers) {
	h.onContexts = func(contexts []model.ResourceContext) { publishContexts(s, h, contexts) }

	s.AddTool(
		mcp.NewTool("start_run",
			mcp.WithDescription("Start a waste review: collect the inventory, classify waste and let the agent propose remediation actions. Stops at the approval gate when actions are proposed."),
			mcp.WithString("project_id", mcp.Description("GCP project ID. Defaults to GCP_PROJECT_ID.")),
			mcp.WithString("mode", mcp.Description("Inventory source"), mcp.Enum("live", "file", "simulated")),
			mcp.WithString("file", mcp.Description("Inventory document path for file mode")),
			mcp.WithString("intent", mcp.Description("What the cleanup should achieve")),
			mcp.WithString("industry", mcp.Description("Industry context for the report")),
			mcp.WithNumber("seed", mcp.Description("Seed for the simulated inventory")),
		),
		h.handleStartRun,
	)

	s.AddTool(
		mcp.NewTool("get_run",
			mcp.WithDescription("Get the current run: stage, candidates, planned actions and trace."),
		),
		h.handleGetRun,
	)

	s.AddTool(
		mcp.NewTool("approve_action",
			mcp.WithDescription("Approve one planned action of the run awaiting approval."),
			mcp.WithString("action_id", mcp.Required(), mcp.Description("Planned action ID")),
		),
		h.handleApprove,
	)

	s.AddTool(
		mcp.NewTool("reject_action",
			mcp.WithDescription("Reject one planned action of the run awaiting approval."),
			mcp.WithString("action_id", mcp.Required(), mcp.Description("Planned action ID")),
		),
		h.handleReject,
	)

	s.AddTool(
		mcp.NewTool("execute_approved",
			mcp.WithDescription("Execute the approved actions in order, then write the report and finish the run."),
		),
		h.handleExecute,
	)

	s.AddTool(
		mcp.NewTool("dismiss_run",
			mcp.WithDescription("Finish the run awaiting approval without executing anything."),
		),
		h.handleDismiss,
	)

	s.AddTool(
		mcp.NewTool("get_report",
			mcp.WithDescription("Get the closing report of the finished run with potential and realized savings."),
		),
		h.handleGetReport,
	)

	s.AddTool(
		mcp.NewTool("list_run_history",
			mcp.WithDescription("List finished runs, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum runs to return (default 20)")),
		),
		h.handleListHistory,
	)

	s.AddTool(
		mcp.NewTool("verify_connection",
			mcp.WithDescription("Check that the configured credentials can reach a GCP project."),
			mcp.WithString("project_id", mcp.Description("GCP project ID. Defaults to GCP_PROJECT_ID.")),
		),
		h.handleVerify,
	)
}

func (h *Handlers) handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := model.RunRequest{
		AccountID:   request.GetString("project_id", h.defaults.ProjectID),
		Mode:        model.InventoryMode(request.GetString("mode", string(h.defaults.Mode))),
		FilePath:    request.GetString("file", ""),
		Intent:      request.GetString("intent", ""),
		Industry:    request.GetString("industry", h.defaults.Industry),
		Seed:        int64(request.GetFloat("seed", 0)),
		Credentials: h.defaults.Credentials,
	}
	if req.Mode == "" {
		req.Mode = model.InventorySimulated
	}
	if req.Mode == model.InventoryLive && req.AccountID == "" {
		return mcp.NewToolResultError("project_id or GCP_PROJECT_ID is required in live mode"), nil
	}
	if req.Mode == model.InventoryFile && req.FilePath == "" {
		return mcp.NewToolResultError("file is required in file mode"), nil
	}

	run, err := h.orchestrator.Start(ctx, req)
	if err != nil {
		if errors.Is(err, orchestrator.ErrRunActive) {
			return mcp.NewToolResultError("A run is already in progress. Finish it with execute_approved or dismiss_run first."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Run failed: %v", err)), nil
	}
	h.onContexts(h.orchestrator.Contexts())
	return jsonResult(response.ConvertRun(run))
}

func (h *Handlers) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run := h.orchestrator.Current()
	if run.ID == "" {
		return mcp.NewToolResultError("No run has been started"), nil
	}
	return jsonResult(response.ConvertRun(run))
}

func (h *Handlers) handleApprove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.decide(request, h.orchestrator.Approve)
}

func (h *Handlers) handleReject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.decide(request, h.orchestrator.Reject)
}

func (h *Handlers) decide(request mcp.CallToolRequest, apply func(id string) (model.Run, error)) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("action_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	run, err := apply(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, a := range run.Actions {
		if a.ID == id {
			return jsonResult(response.ConvertAction(a))
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("No planned action with id %s", id)), nil
}

func (h *Handlers) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := h.orchestrator.Execute(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(response.ConvertRun(run))
}

func (h *Handlers) handleDismiss(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := h.orchestrator.Dismiss(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(response.ConvertRun(run))
}

func (h *Handlers) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run := h.orchestrator.Current()
	if run.Stage != model.StageFinished {
		return mcp.NewToolResultError(fmt.Sprintf("No finished run (current stage: %s)", run.Stage)), nil
	}
	return jsonResult(response.ConvertReport(run))
}

func (h *Handlers) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("Run history is not configured"), nil
	}
	limit := int(request.GetFloat("limit", defaultHistoryLimit))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := h.store.ListRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list runs: %v", err)), nil
	}
	entries := make([]response.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, response.ConvertRecord(r))
	}
	return jsonResult(entries)
}

func (h *Handlers) handleVerify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := request.GetString("project_id", h.defaults.ProjectID)
	if projectID == "" {
		return mcp.NewToolResultError("GCP_PROJECT_ID environment variable or project_id is required"), nil
	}
	status := h.verifier.Verify(ctx, projectID, h.defaults.Credentials)
	return jsonResult(response.ConvertConnectionStatus(projectID, status))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
