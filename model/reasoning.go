package model

import "github.com/mark3labs/mcp-go/mcp"

// TurnRole identifies who produced a conversation turn
type TurnRole string

const (
	RoleUser  TurnRole = "user"
	RoleModel TurnRole = "model"
)

// CallRequest is a structured action call emitted by the reasoning service
type CallRequest struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CallAck acknowledges a call request in the following user turn
type CallAck struct {
	CallID  string `json:"callId"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Turn is one entry of the explicit conversation history
type Turn struct {
	Role  TurnRole      `json:"role"`
	Text  string        `json:"text,omitempty"`
	Calls []CallRequest `json:"calls,omitempty"`
	Acks  []CallAck     `json:"acks,omitempty"`
}

// ReasoningRequest is sent to the reasoning service on every round. History
// carries the whole conversation so the service stays stateless.
type ReasoningRequest struct {
	Tools             []mcp.Tool
	SystemInstruction string
	History           []Turn
}

// ReasoningResponse is one reply of the reasoning service
type ReasoningResponse struct {
	Text  string
	Calls []CallRequest
}
