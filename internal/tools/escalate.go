package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"frontdeskbot/internal/escalate"
	"frontdeskbot/internal/session"
)

// Caller-facing phrasings for each escalation outcome. Escalation never
// surfaces as a failure in the conversation.
const (
	escalatedReply = "Let me check with my supervisor. I'll share their answer with you the moment I hear back."
	duplicateReply = "I've already asked my supervisor about that one. Hang tight, I'll pass along their answer as soon as it arrives."
	degradedReply  = "I couldn't reach my supervisor just now, but I've noted your question and someone from the team will follow up with you."
)

// EscalateTool forwards an unanswered question to a human supervisor.
type EscalateTool struct {
	Coordinator *escalate.Coordinator
}

func NewEscalateTool(coord *escalate.Coordinator) *EscalateTool {
	return &EscalateTool{Coordinator: coord}
}

func (t *EscalateTool) Name() string { return "escalate_to_supervisor" }

func (t *EscalateTool) Description() string {
	return "Ask a human supervisor for help when the answer is not in the knowledge base. Files a help request; the supervisor's answer is relayed to the caller automatically once it arrives."
}

func (t *EscalateTool) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"question": {Type: "string", Description: "The question to forward to the supervisor, phrased so it can be answered without further context."},
		},
		Required: []string{"question"},
	}
}

type escalateArgs struct {
	Question string `json:"question"`
}

func (t *EscalateTool) Invoke(ctx context.Context, sess *session.Session, args json.RawMessage) (string, error) {
	var in escalateArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid escalate arguments: %w", err)
	}
	if strings.TrimSpace(in.Question) == "" {
		return "", fmt.Errorf("question is required")
	}

	result := t.Coordinator.Escalate(ctx, in.Question, sess)
	switch {
	case result.Duplicate:
		return duplicateReply, nil
	case result.Escalated:
		return escalatedReply, nil
	default:
		return degradedReply, nil
	}
}
