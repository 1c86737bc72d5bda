// Package agent runs the conversation loop: caller turns go to the model,
// the model drives the closed tool set, and the final text comes back to the
// conversation surface.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"frontdeskbot/internal/session"
	"frontdeskbot/internal/tools"
)

const (
	DefaultModel = "claude-sonnet-4-5-20250929"

	// Matches the original front-desk behavior: at most two tool rounds per
	// caller turn, then answer with whatever we have.
	defaultMaxToolSteps = 2

	maxResponseTokens = 1024

	fallbackReply = "Let me look into that and get right back to you."
)

type Agent struct {
	client       anthropic.Client
	model        string
	registry     *tools.Registry
	toolParams   []anthropic.ToolUnionParam
	maxToolSteps int
	businessName string
}

func New(apiKey, model, businessName string, registry *tools.Registry) *Agent {
	if model == "" {
		model = DefaultModel
	}
	return &Agent{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:        model,
		registry:     registry,
		toolParams:   toolParams(registry),
		maxToolSteps: defaultMaxToolSteps,
		businessName: businessName,
	}
}

// Conversation is the running message history for one session. The mutex
// serializes turns: the surface dispatches each incoming message on its own
// goroutine, so two rapid messages in the same conversation would otherwise
// race on the history and on the session's pending-escalation check.
type Conversation struct {
	sess    *session.Session
	mu      sync.Mutex
	history []anthropic.MessageParam
}

func NewConversation(sess *session.Session) *Conversation {
	return &Conversation{sess: sess}
}

func (c *Conversation) Session() *session.Session {
	return c.sess
}

// Respond handles one caller turn. Turns on the same conversation run one at
// a time; concurrent callers queue. Tool failures are reported back to the
// model as error-flagged results, never raised; a model API error is the only
// error path, and callers keep the conversation alive regardless.
func (a *Agent) Respond(ctx context.Context, conv *Conversation, userText string) (string, error) {
	conv.mu.Lock()
	defer conv.mu.Unlock()

	turnStart := len(conv.history)
	conv.history = append(conv.history, anthropic.NewUserMessage(anthropic.NewTextBlock(userText)))

	for step := 0; ; step++ {
		message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(a.model),
			MaxTokens: maxResponseTokens,
			System: []anthropic.TextBlockParam{
				{Text: a.systemPrompt(conv.sess)},
			},
			Messages: conv.history,
			Tools:    a.toolParams,
		})
		if err != nil {
			// Drop the failed turn so a retried question doesn't replay it
			// (or leave a dangling tool_use round) in the history.
			conv.history = conv.history[:turnStart]
			return "", fmt.Errorf("model turn failed: %w", err)
		}
		conv.history = append(conv.history, message.ToParam())

		if message.StopReason != "tool_use" || step >= a.maxToolSteps {
			return replyText(message), nil
		}

		results := a.invokeTools(ctx, conv.sess, message)
		conv.history = append(conv.history, anthropic.NewUserMessage(results...))
	}
}

func (a *Agent) invokeTools(ctx context.Context, sess *session.Session, message *anthropic.Message) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion
	for _, block := range message.Content {
		if block.Type != "tool_use" {
			continue
		}
		tool, ok := a.registry.Get(block.Name)
		if !ok {
			log.Printf("model requested unknown tool %q", block.Name)
			results = append(results, anthropic.NewToolResultBlock(block.ID, fmt.Sprintf("unknown tool %q", block.Name), true))
			continue
		}
		out, err := tool.Invoke(ctx, sess, json.RawMessage(block.Input))
		if err != nil {
			log.Printf("tool %s error: %v", block.Name, err)
			results = append(results, anthropic.NewToolResultBlock(block.ID, err.Error(), true))
			continue
		}
		results = append(results, anthropic.NewToolResultBlock(block.ID, out, false))
	}
	return results
}

func (a *Agent) systemPrompt(sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the friendly front-desk assistant for %s, a boutique hair studio. ", a.businessName)
	b.WriteString("Answer questions about hours, services, pricing, and policies using the provided tools. " +
		"Always check the knowledge base with lookup_knowledge_base before replying. " +
		"If the lookup reports knowledge_not_found, escalate immediately with escalate_to_supervisor and reassure the caller that a human will follow up. " +
		"When the caller shares their name or phone number, record it with the update tools. " +
		"Keep responses short, two sentences at most, and natural. " +
		"Never invent offers, prices, or availability that you cannot confirm.")

	name, phone := sess.Caller()
	if name != "" {
		fmt.Fprintf(&b, "\nThe caller's name is %s.", name)
	}
	if phone != "" {
		fmt.Fprintf(&b, "\nThe caller's phone number is %s.", phone)
	}
	if id := sess.PendingRequestID(); id != "" {
		b.WriteString("\nA supervisor request is already pending for this caller; do not file another one for the same question.")
	}
	return b.String()
}

// replyText flattens the message's text blocks into the reply shown to the
// caller.
func replyText(message *anthropic.Message) string {
	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return fallbackReply
	}
	return strings.Join(parts, "\n")
}

func toolParams(registry *tools.Registry) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(registry.All()))
	for _, t := range registry.All() {
		schema := t.InputSchema()
		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name(),
				Description: anthropic.String(t.Description()),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema.Properties,
					Required:   schema.Required,
				},
			},
		})
	}
	return params
}
