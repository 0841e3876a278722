package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elC0mpa/cloud-doctor/model"
)

// Generate sends the full conversation with the declared tools. Function
// call parts of the reply become call requests.
func (c *Client) Generate(ctx context.Context, req model.ReasoningRequest) (*model.ReasoningResponse, error) {
	decls, err := declarations(req.Tools)
	if err != nil {
		return nil, err
	}

	in := generateRequest{Contents: contents(req.History)}
	if req.SystemInstruction != "" {
		in.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}
	if len(decls) > 0 {
		in.Tools = []tool{{FunctionDeclarations: decls}}
	}

	resp, err := c.generate(ctx, in)
	if err != nil {
		return nil, err
	}

	out := &model.ReasoningResponse{Text: resp.text()}
	for i, p := range resp.Candidates[0].Content.Parts {
		if p.FunctionCall == nil {
			continue
		}
		id := p.FunctionCall.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", p.FunctionCall.Name, i)
		}
		out.Calls = append(out.Calls, model.CallRequest{
			ID:        id,
			Name:      p.FunctionCall.Name,
			Arguments: p.FunctionCall.Args,
		})
	}
	return out, nil
}

func contents(history []model.Turn) []content {
	out := make([]content, 0, len(history))
	for _, turn := range history {
		c := content{Role: string(turn.Role)}
		if turn.Text != "" {
			c.Parts = append(c.Parts, part{Text: turn.Text})
		}
		for _, call := range turn.Calls {
			c.Parts = append(c.Parts, part{FunctionCall: &functionCall{Name: call.Name, Args: call.Arguments}})
		}
		for _, ack := range turn.Acks {
			c.Parts = append(c.Parts, part{FunctionResponse: &functionResponse{
				Name: ack.Name,
				Response: map[string]any{
					"callId":  ack.CallID,
					"status":  ack.Status,
					"message": ack.Message,
				},
			}})
		}
		if len(c.Parts) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// declarations converts MCP tool schemas into function declarations
func declarations(tools []mcp.Tool) ([]functionDeclaration, error) {
	out := make([]functionDeclaration, 0, len(tools))
	for _, t := range tools {
		raw, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("gemini: encode schema %s: %w", t.Name, err)
		}
		var params map[string]any
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, fmt.Errorf("gemini: decode schema %s: %w", t.Name, err)
		}
		out = append(out, functionDeclaration{Name: t.Name, Description: t.Description, Parameters: params})
	}
	return out, nil
}
