package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/cloud-doctor/model"
)

type fakeReasoner struct {
	responses []model.ReasoningResponse
	repeat    bool
	err       error
	requests  []model.ReasoningRequest
}

func (f *fakeReasoner) Generate(_ context.Context, req model.ReasoningRequest) (*model.ReasoningResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.repeat {
		return &f.responses[0], nil
	}
	if len(f.requests) > len(f.responses) {
		return &model.ReasoningResponse{Text: "done"}, nil
	}
	return &f.responses[len(f.requests)-1], nil
}

var contexts = []model.ResourceContext{
	{Key: "compute-instance/web-01", Metadata: map[string]any{"cost": 97.8, "reason": "IDLE_COMPUTE"}},
	{Key: "compute-instance/api-01", Metadata: map[string]any{"cost": 97.8, "reason": "OVER_PROVISIONED"}},
	{Key: "cloudsql-instance/legacy-db", Metadata: map[string]any{"cost": 102.2, "reason": "IDLE_DATABASE"}},
}

func call(name string, args map[string]any) model.CallRequest {
	return model.CallRequest{Name: name, Arguments: args}
}

func stopWeb() model.CallRequest {
	return call("stop_vm", map[string]any{
		"resource_name": "web-01",
		"location":      "us-central1-a",
		"confidence":    float64(90),
		"justification": "idle for a week",
	})
}

func newAgent(r *fakeReasoner) *agentService {
	return NewService(r, zerolog.Nop())
}

func TestNegotiateWithoutContextsSkipsService(t *testing.T) {
	r := &fakeReasoner{}
	res := newAgent(r).Negotiate(context.Background(), nil, "cut costs", "")

	assert.Empty(t, res.Actions)
	assert.Empty(t, r.requests)
}

func TestNegotiateWithoutReasoner(t *testing.T) {
	res := NewService(nil, zerolog.Nop()).Negotiate(context.Background(), contexts, "", "")
	assert.Empty(t, res.Actions)
}

func TestNegotiateExtractsActionsAndAcknowledges(t *testing.T) {
	r := &fakeReasoner{responses: []model.ReasoningResponse{
		{Calls: []model.CallRequest{
			stopWeb(),
			call("rightsize_vm", map[string]any{
				"resource_name":       "api-01",
				"location":            "us-central1-a",
				"confidence":          float64(80),
				"justification":       "10% CPU",
				"target_machine_type": "e2-standard-2",
			}),
		}},
	}}

	res := newAgent(r).Negotiate(context.Background(), contexts, "cut costs", "")

	require.Len(t, res.Actions, 2)
	assert.Equal(t, model.ActionStopVM, res.Actions[0].Type)
	assert.Equal(t, "web-01", res.Actions[0].ResourceName)
	assert.Equal(t, "us-central1-a", res.Actions[0].Location)
	assert.Equal(t, 90, res.Actions[0].Confidence)
	assert.Equal(t, model.StatusPending, res.Actions[0].Status)
	assert.NotEmpty(t, res.Actions[0].ID)
	assert.NotEqual(t, res.Actions[0].ID, res.Actions[1].ID)
	require.NotNil(t, res.Actions[1].Rightsize)
	assert.Equal(t, "e2-standard-2", res.Actions[1].Rightsize.TargetMachineType)

	require.Len(t, r.requests, 2)
	reply := r.requests[1].History
	require.Len(t, reply, 3)
	assert.Equal(t, model.RoleModel, reply[1].Role)
	require.Len(t, reply[2].Acks, 2)
	for _, ack := range reply[2].Acks {
		assert.Equal(t, AckQueued, ack.Status)
		assert.NotEmpty(t, ack.CallID)
	}
	assert.Len(t, r.requests[0].Tools, len(model.ActionTypes))
	assert.Contains(t, r.requests[0].SystemInstruction, "cut costs")
}

func TestNegotiateIsBounded(t *testing.T) {
	r := &fakeReasoner{repeat: true, responses: []model.ReasoningResponse{{Calls: []model.CallRequest{stopWeb()}}}}

	res := newAgent(r).Negotiate(context.Background(), contexts, "", "")

	assert.Len(t, r.requests, MaxReplies+1)
	assert.Equal(t, MaxReplies+1, res.Rounds)
	assert.Len(t, res.Actions, MaxReplies+1)
	last := r.requests[len(r.requests)-1].History
	assert.Len(t, last, 1+2*MaxReplies)
}

func TestNegotiateFailureYieldsNoActions(t *testing.T) {
	r := &fakeReasoner{err: errors.New("connection reset")}

	res := newAgent(r).Negotiate(context.Background(), contexts, "", "")

	assert.Empty(t, res.Actions)
	require.NotEmpty(t, res.Trace)
	assert.Equal(t, model.LogError, res.Trace[len(res.Trace)-1].Level)
}

func TestNegotiateFailureAfterCallsDiscardsActions(t *testing.T) {
	r := &fakeReasoner{responses: []model.ReasoningResponse{{Calls: []model.CallRequest{stopWeb()}}}}
	agent := newAgent(r)
	agent.reasoner = &failingAfterFirst{inner: r}

	res := agent.Negotiate(context.Background(), contexts, "", "")
	assert.Empty(t, res.Actions)
}

type failingAfterFirst struct {
	inner *fakeReasoner
	calls int
}

func (f *failingAfterFirst) Generate(ctx context.Context, req model.ReasoningRequest) (*model.ReasoningResponse, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("timeout")
	}
	return f.inner.Generate(ctx, req)
}

func TestNegotiateRejectsInvalidCalls(t *testing.T) {
	r := &fakeReasoner{responses: []model.ReasoningResponse{{Calls: []model.CallRequest{
		call("format_disk", map[string]any{"resource_name": "web-01"}),
		call("stop_vm", map[string]any{"location": "us-central1-a", "confidence": float64(50), "justification": "x"}),
		call("stop_vm", map[string]any{"resource_name": "ghost", "location": "us-central1-a", "confidence": float64(50), "justification": "x"}),
		call("delete_database", map[string]any{"resource_name": "legacy-db", "location": "us-central1", "confidence": float64(80), "justification": "x"}),
		call("stop_vm", map[string]any{"resource_name": "web-01", "location": "us-central1-a", "confidence": float64(150), "justification": "x"}),
	}}}}

	res := newAgent(r).Negotiate(context.Background(), contexts, "", "")

	assert.Empty(t, res.Actions)
	require.Len(t, r.requests, 2)
	acks := r.requests[1].History[2].Acks
	require.Len(t, acks, 5)
	assert.Equal(t, AckError, acks[0].Status)
	assert.Equal(t, AckError, acks[1].Status)
	assert.Equal(t, AckError, acks[2].Status)
	assert.Equal(t, AckRejected, acks[3].Status)
	assert.Equal(t, AckError, acks[4].Status)
}

func TestNegotiateDropsLowConfidenceDatabaseDeletion(t *testing.T) {
	r := &fakeReasoner{responses: []model.ReasoningResponse{{Calls: []model.CallRequest{
		call("stop_vm", map[string]any{"resource_name": "web-01", "location": "us-central1-a", "confidence": float64(92), "justification": "idle"}),
		call("delete_database", map[string]any{"resource_name": "legacy-db", "location": "us-central1", "confidence": float64(90), "justification": "no connections"}),
	}}}}

	res := newAgent(r).Negotiate(context.Background(), contexts, "", "")

	require.Len(t, res.Actions, 1)
	assert.Equal(t, model.ActionStopVM, res.Actions[0].Type)
	require.Len(t, r.requests, 2)
	acks := r.requests[1].History[2].Acks
	require.Len(t, acks, 2)
	assert.Equal(t, AckQueued, acks[0].Status)
	assert.Equal(t, AckRejected, acks[1].Status)
	assert.Contains(t, acks[1].Message, "confidence >= 95")
}

func TestNegotiateAcceptsConfidentDatabaseDeletion(t *testing.T) {
	r := &fakeReasoner{responses: []model.ReasoningResponse{{Calls: []model.CallRequest{
		call("delete_database", map[string]any{"resource_name": "legacy-db", "location": "us-central1", "confidence": float64(97), "justification": "no connections"}),
	}}}}

	res := newAgent(r).Negotiate(context.Background(), contexts, "", "")

	require.Len(t, res.Actions, 1)
	assert.Equal(t, model.ActionDeleteDatabase, res.Actions[0].Type)
}

func TestSchemas(t *testing.T) {
	tools := Schemas()
	require.Len(t, tools, 5)
	for _, tool := range tools {
		assert.Contains(t, tool.InputSchema.Required, "resource_name")
		assert.Contains(t, tool.InputSchema.Required, "location")
		assert.Contains(t, tool.InputSchema.Required, "confidence")
		assert.Contains(t, tool.InputSchema.Required, "justification")

		actionType, ok := ActionTypeFor(tool.Name)
		require.True(t, ok)
		assert.Equal(t, tool.Name, ToolName(actionType))
	}
	assert.Contains(t, tools[1].InputSchema.Required, "target_machine_type")
}

func TestSystemInstructionCarriesSafetyConstraints(t *testing.T) {
	text := SystemInstruction("reduce dev spend", "Three-tier web app")
	assert.Contains(t, text, "reduce dev spend")
	assert.Contains(t, text, "Three-tier web app")
	assert.Contains(t, text, "at least 95")
	assert.Contains(t, text, "Prefer rightsizing")
}
