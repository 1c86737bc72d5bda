package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"frontdeskbot/internal/session"
)

// UpdateNameTool records the caller's name on the session so later
// escalations carry it.
type UpdateNameTool struct{}

func (UpdateNameTool) Name() string { return "update_caller_name" }

func (UpdateNameTool) Description() string {
	return "Record the caller's name once they share it, so follow-ups reach the right person."
}

func (UpdateNameTool) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {Type: "string", Description: "The caller's name as they gave it."},
		},
		Required: []string{"name"},
	}
}

func (UpdateNameTool) Invoke(ctx context.Context, sess *session.Session, args json.RawMessage) (string, error) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid name arguments: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	sess.SetCallerName(name)
	return fmt.Sprintf("Noted the caller's name as %s.", name), nil
}

// UpdatePhoneTool records the caller's phone number on the session.
type UpdatePhoneTool struct{}

func (UpdatePhoneTool) Name() string { return "update_caller_phone" }

func (UpdatePhoneTool) Description() string {
	return "Record the caller's phone number once they share it, so the supervisor can text them directly."
}

func (UpdatePhoneTool) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"phone": {Type: "string", Description: "The caller's phone number, digits and punctuation as given."},
		},
		Required: []string{"phone"},
	}
}

func (UpdatePhoneTool) Invoke(ctx context.Context, sess *session.Session, args json.RawMessage) (string, error) {
	var in struct {
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid phone arguments: %w", err)
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return "", fmt.Errorf("phone is required")
	}
	sess.SetCallerPhone(phone)
	return fmt.Sprintf("Noted the caller's phone number as %s.", phone), nil
}
