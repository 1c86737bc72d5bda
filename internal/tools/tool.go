// Package tools defines the closed set of capabilities the conversation
// model can invoke: knowledge lookup, supervisor escalation, and caller
// detail updates.
package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"frontdeskbot/internal/session"
)

// Tool is one capability exposed to the conversation model. Invoke returns
// the text handed back to the model as the tool result; an error becomes an
// error-flagged tool result, not a conversation failure.
type Tool interface {
	Name() string
	Description() string
	InputSchema() *jsonschema.Schema
	Invoke(ctx context.Context, sess *session.Session, args json.RawMessage) (string, error)
}

// Registry holds the tool set in a stable order.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		r.tools = append(r.tools, t)
		r.byName[t.Name()] = t
	}
	return r
}

func (r *Registry) All() []Tool {
	return r.tools
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}
