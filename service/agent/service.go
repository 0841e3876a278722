package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
)

// NewService returns a negotiation agent. A nil reasoner yields no actions.
func NewService(reasoner service.ReasoningService, logger zerolog.Logger) *agentService {
	return &agentService{
		reasoner:   reasoner,
		logger:     logger.With().Str("component", "agent").Logger(),
		maxReplies: MaxReplies,
		newID:      uuid.NewString,
	}
}

// Negotiate declares the action schemas, sends the projected contexts and
// acknowledges call requests until the service stops calling or the reply
// bound is reached. Transport failures yield an empty result.
func (s *agentService) Negotiate(ctx context.Context, contexts []model.ResourceContext, intent, visualAnalysis string) Result {
	if len(contexts) == 0 || s.reasoner == nil {
		return Result{}
	}

	message, err := initialMessage(contexts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to serialize resource contexts")
		return Result{}
	}

	req := model.ReasoningRequest{
		Tools:             Schemas(),
		SystemInstruction: SystemInstruction(intent, visualAnalysis),
		History:           []model.Turn{{Role: model.RoleUser, Text: message}},
	}
	known := knownResources(contexts)

	var res Result
	for {
		resp, err := s.reasoner.Generate(ctx, req)
		res.Rounds++
		if err != nil {
			s.logger.Error().Err(err).Int("round", res.Rounds).Msg("reasoning service failed")
			return Result{Rounds: res.Rounds, Trace: append(res.Trace, entry(model.LogError, "Reasoning service failed: "+err.Error()))}
		}
		if len(resp.Calls) == 0 {
			break
		}

		calls := make([]model.CallRequest, len(resp.Calls))
		acks := make([]model.CallAck, 0, len(resp.Calls))
		for i, call := range resp.Calls {
			if call.ID == "" {
				call.ID = fmt.Sprintf("call-%d-%d", res.Rounds, i)
			}
			calls[i] = call

			action, ack := s.extract(call, known)
			acks = append(acks, ack)
			if action == nil {
				res.Trace = append(res.Trace, entry(model.LogWarn, fmt.Sprintf("Dropped %s call: %s", call.Name, ack.Message)))
				continue
			}
			res.Actions = append(res.Actions, *action)
			res.Trace = append(res.Trace, entry(model.LogInfo, fmt.Sprintf("Proposed %s on %s", action.Type, action.ResourceName)))
		}

		if res.Rounds > s.maxReplies {
			s.logger.Warn().Int("replies", s.maxReplies).Msg("negotiation reply bound reached")
			res.Trace = append(res.Trace, entry(model.LogWarn, "Negotiation stopped after reaching the reply limit"))
			break
		}

		req.History = append(req.History,
			model.Turn{Role: model.RoleModel, Text: resp.Text, Calls: calls},
			model.Turn{Role: model.RoleUser, Acks: acks},
		)
	}

	return res
}

// extract validates one call request against its declared schema. It
// returns nil with an explanatory ack when the call is dropped. Two kinds of
// schema-valid calls are dropped as well: a target that is not one of the
// projected contexts is acked "error", and a database deletion below
// MinDatabaseDeleteConfidence is acked "rejected". Neither reaches the
// approval gate.
func (s *agentService) extract(call model.CallRequest, known map[string]struct{}) (*model.PlannedAction, model.CallAck) {
	ack := model.CallAck{CallID: call.ID, Name: call.Name}

	actionType, ok := ActionTypeFor(call.Name)
	if !ok {
		ack.Status, ack.Message = AckError, "unknown action schema"
		return nil, ack
	}

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: call.Name, Arguments: call.Arguments}}
	name, err := req.RequireString(argResourceName)
	if err != nil {
		ack.Status, ack.Message = AckError, err.Error()
		return nil, ack
	}
	location, err := req.RequireString(argLocation)
	if err != nil {
		ack.Status, ack.Message = AckError, err.Error()
		return nil, ack
	}
	confidence, err := req.RequireFloat(argConfidence)
	if err != nil {
		ack.Status, ack.Message = AckError, err.Error()
		return nil, ack
	}
	if confidence < 0 || confidence > 100 {
		ack.Status, ack.Message = AckError, "confidence must be between 0 and 100"
		return nil, ack
	}

	kind, _ := actionType.TargetKind()
	if _, ok := known[string(kind)+"/"+name]; !ok {
		ack.Status, ack.Message = AckError, fmt.Sprintf("%s is not a flagged %s", name, kind)
		return nil, ack
	}

	action := &model.PlannedAction{
		ID:            s.newID(),
		Type:          actionType,
		ResourceName:  name,
		Location:      location,
		Confidence:    int(math.Round(confidence)),
		Justification: req.GetString(argJustification, ""),
		Status:        model.StatusPending,
	}

	if actionType == model.ActionDeleteDatabase && action.Confidence < MinDatabaseDeleteConfidence {
		s.logger.Warn().Str("target", name).Int("confidence", action.Confidence).Msg("dropping low-confidence database deletion")
		ack.Status, ack.Message = AckRejected, fmt.Sprintf("database deletion requires confidence >= %d", MinDatabaseDeleteConfidence)
		return nil, ack
	}

	if actionType == model.ActionRightsizeVM {
		target, err := req.RequireString(argTargetMachineType)
		if err != nil {
			ack.Status, ack.Message = AckError, err.Error()
			return nil, ack
		}
		action.Rightsize = &model.RightsizeDetail{
			CurrentMachineType: req.GetString(argCurrentMachineType, ""),
			TargetMachineType:  target,
		}
	}

	s.logger.Info().
		Str("action_id", action.ID).
		Str("action_type", string(action.Type)).
		Str("target", action.ResourceName).
		Int("confidence", action.Confidence).
		Msg("action proposed")

	ack.Status, ack.Message = AckQueued, "queued for approval as "+action.ID
	return action, ack
}

// SystemInstruction renders the guidance sent with every request
func SystemInstruction(intent, visualAnalysis string) string {
	var b strings.Builder
	b.WriteString("You are a cloud cost optimization agent for a Google Cloud project.\n")
	b.WriteString("Review the flagged resources and propose remediations using only the declared tools.\n")
	if intent = strings.TrimSpace(intent); intent != "" {
		fmt.Fprintf(&b, "Operator intent: %s\n", intent)
	}
	if visualAnalysis = strings.TrimSpace(visualAnalysis); visualAnalysis != "" {
		fmt.Fprintf(&b, "Architecture diagram analysis: %s\n", visualAnalysis)
	}
	b.WriteString("Hard constraints:\n")
	fmt.Fprintf(&b, "- Never propose deleting a database unless your confidence is at least %d.\n", MinDatabaseDeleteConfidence)
	b.WriteString("- Prefer rightsizing over deletion or stopping for any VM whose CPU usage is above 0.\n")
	b.WriteString("Each call needs the resource name and location exactly as given, a confidence from 0 to 100, and a justification.\n")
	return b.String()
}

func initialMessage(contexts []model.ResourceContext) (string, error) {
	raw, err := json.MarshalIndent(contexts, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Flagged resources (%d):\n%s", len(contexts), raw), nil
}

func knownResources(contexts []model.ResourceContext) map[string]struct{} {
	known := make(map[string]struct{}, len(contexts))
	for _, c := range contexts {
		known[c.Key] = struct{}{}
	}
	return known
}

func entry(level model.LogLevel, msg string) model.LogEntry {
	return model.LogEntry{Time: time.Now().UTC(), Level: level, Message: msg}
}
