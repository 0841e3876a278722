package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/cloud-doctor/cmd/mcp/response"
	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/agent"
	"github.com/elC0mpa/cloud-doctor/service/executor"
	"github.com/elC0mpa/cloud-doctor/service/orchestrator"
	"github.com/elC0mpa/cloud-doctor/service/storage"
)

type fakeInventory struct{}

func (fakeInventory) FetchInventory(context.Context, model.RunRequest) (*model.InventorySnapshot, error) {
	return model.NewInventorySnapshot("demo-project", []model.VM{{
		Name:         "web-01",
		Zone:         "us-central1-a",
		MachineType:  "n2-standard-4",
		Status:       model.VMStatusRunning,
		CPUAverage7d: 0.01,
		MonthlyCost:  97.80,
	}}, nil, nil, nil), nil
}

type fakeReasoner struct{ calls int }

func (f *fakeReasoner) Generate(context.Context, model.ReasoningRequest) (*model.ReasoningResponse, error) {
	f.calls++
	if f.calls > 1 {
		return &model.ReasoningResponse{Text: "Done."}, nil
	}
	return &model.ReasoningResponse{Calls: []model.CallRequest{{
		ID:   "c1",
		Name: "stop_vm",
		Arguments: map[string]any{
			"resource_name": "web-01",
			"location":      "us-central1-a",
			"confidence":    float64(90),
			"justification": "idle for a week",
		},
	}}}, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, projectID string, _ []byte) model.ConnectionStatus {
	return model.ConnectionStatus{OK: projectID == "demo-project", Message: "checked " + projectID}
}

func newHandlers(t *testing.T) (*Handlers, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	orch := orchestrator.NewService(orchestrator.Dependencies{
		Inventory: fakeInventory{},
		Agent:     agent.NewService(&fakeReasoner{}, zerolog.Nop()),
		Executor:  executor.NewSimulatedExecutor(0, zerolog.Nop()),
		Store:     store,
		Logger:    zerolog.Nop(),
	})
	return NewHandlers(orch, store, fakeVerifier{}, Defaults{ProjectID: "demo-project", Mode: model.InventorySimulated}), store
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, toolText(t, result))
	var out T
	require.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &out))
	return out
}

func TestRunLifecycle(t *testing.T) {
	h, _ := newHandlers(t)
	ctx := context.Background()

	var published []model.ResourceContext
	h.onContexts = func(c []model.ResourceContext) { published = c }

	result, err := h.handleStartRun(ctx, call(map[string]any{"industry": "retail"}))
	require.NoError(t, err)
	run := decode[response.Run](t, result)
	assert.Equal(t, string(model.StageApproval), run.Stage)
	require.Len(t, run.Actions, 1)
	require.Len(t, run.Candidates, 1)
	assert.Equal(t, "cloud-doctor://compute-instance/web-01", run.Candidates[0].URI)
	require.Len(t, published, 1)

	result, err = h.handleStartRun(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleGetReport(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleApprove(ctx, call(map[string]any{"action_id": run.Actions[0].ID}))
	require.NoError(t, err)
	action := decode[response.Action](t, result)
	assert.Equal(t, string(model.StatusApproved), action.Status)

	result, err = h.handleExecute(ctx, call(nil))
	require.NoError(t, err)
	run = decode[response.Run](t, result)
	assert.Equal(t, string(model.StageFinished), run.Stage)
	assert.Equal(t, string(model.StatusExecuted), run.Actions[0].Status)
	assert.Contains(t, run.Actions[0].Command, "gcloud compute instances stop web-01")

	result, err = h.handleGetReport(ctx, call(nil))
	require.NoError(t, err)
	rep := decode[response.Report](t, result)
	assert.Greater(t, rep.RealizedSavings, 0.0)
	assert.InDelta(t, rep.PotentialSavings, rep.RealizedSavings, 0.001)

	result, err = h.handleListHistory(ctx, call(map[string]any{"limit": float64(5)}))
	require.NoError(t, err)
	history := decode[[]response.HistoryEntry](t, result)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Executed)
}

func TestRejectAndDismiss(t *testing.T) {
	h, _ := newHandlers(t)
	ctx := context.Background()

	result, err := h.handleStartRun(ctx, call(nil))
	require.NoError(t, err)
	run := decode[response.Run](t, result)

	result, err = h.handleReject(ctx, call(map[string]any{"action_id": run.Actions[0].ID}))
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusRejected), decode[response.Action](t, result).Status)

	result, err = h.handleExecute(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleDismiss(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, string(model.StageFinished), decode[response.Run](t, result).Stage)
}

func TestDecisionErrors(t *testing.T) {
	h, _ := newHandlers(t)
	ctx := context.Background()

	result, err := h.handleApprove(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleApprove(ctx, call(map[string]any{"action_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleGetRun(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestStartRunValidatesMode(t *testing.T) {
	h, _ := newHandlers(t)

	result, err := h.handleStartRun(context.Background(), call(map[string]any{"mode": "file"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, toolText(t, result), "file is required")
}

func TestResourceContext(t *testing.T) {
	h, _ := newHandlers(t)
	ctx := context.Background()

	_, err := h.handleStartRun(ctx, call(nil))
	require.NoError(t, err)

	contents, err := h.handleResourceContext(ctx, mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "cloud-doctor://compute-instance/web-01"},
	})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	trc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected TextResourceContents")
	assert.Equal(t, "application/json", trc.MIMEType)

	var rc model.ResourceContext
	require.NoError(t, json.Unmarshal([]byte(trc.Text), &rc))
	assert.Equal(t, "IDLE_COMPUTE", rc.Metadata["reason"])

	_, err = h.handleResourceContext(ctx, mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "cloud-doctor://compute-instance/other"},
	})
	assert.Error(t, err)
}

func TestVerifyConnection(t *testing.T) {
	h, _ := newHandlers(t)

	result, err := h.handleVerify(context.Background(), call(nil))
	require.NoError(t, err)
	status := decode[response.ConnectionStatus](t, result)
	assert.True(t, status.OK)
	assert.Equal(t, "demo-project", status.ProjectID)

	result, err = h.handleVerify(context.Background(), call(map[string]any{"project_id": "other"}))
	require.NoError(t, err)
	assert.False(t, decode[response.ConnectionStatus](t, result).OK)
}
