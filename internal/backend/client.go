// Package backend is the HTTP client for the help-request and knowledge-base
// services. The core never mutates help requests; it creates them and reads
// them back until they resolve.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Help request statuses as reported by the backend.
const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusTimeout  = "timeout"
)

// ErrNotFound is returned when the backend no longer knows the help request.
var ErrNotFound = errors.New("help request not found")

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given base address. An empty base address
// yields an unconfigured client; callers check Configured() and degrade to
// logging-only behavior instead of failing the conversation.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// HelpRequest mirrors the backend's record. Absent fields decode to safe
// values: a missing status reads as pending, a missing answer as empty.
type HelpRequest struct {
	ID       string
	Question string
	Status   string
	Answer   string
}

type CreateHelpRequestParams struct {
	Question      string `json:"question"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	Channel       string `json:"channel"`
}

// KnowledgeEntry is a remote knowledge-base row.
type KnowledgeEntry struct {
	ID       string
	Question string
	Answer   string
	Keywords []string
	Phrases  []string
	Tags     []string
}

// The backend wraps every response body in a data envelope.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

type helpRequestPayload struct {
	ID       json.RawMessage `json:"id"`
	Question string          `json:"question"`
	Status   string          `json:"status"`
	Answer   string          `json:"answer"`
}

type knowledgeEntryPayload struct {
	ID       json.RawMessage `json:"id"`
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Keywords []string        `json:"keywords"`
	Phrases  []string        `json:"phrases"`
	Tags     []string        `json:"tags"`
}

// CreateHelpRequest files a new question with the human supervisor queue.
func (c *Client) CreateHelpRequest(ctx context.Context, params CreateHelpRequestParams) (*HelpRequest, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal help request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/help-requests", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build help request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create help request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("create help request: backend returned %s: %s", resp.Status, readSnippet(resp.Body))
	}
	return decodeHelpRequest(resp.Body)
}

// GetHelpRequest reads the current state of a help request. A 404 maps to
// ErrNotFound, which the poller treats as terminal rather than retryable.
func (c *Client) GetHelpRequest(ctx context.Context, id string) (*HelpRequest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/help-requests/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build help request fetch: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch help request %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch help request %s: backend returned %s", id, resp.Status)
	}
	return decodeHelpRequest(resp.Body)
}

// SearchKnowledge queries the remote knowledge base. An empty query returns
// the most recent entries, which is what the dynamic-entry refresh uses.
func (c *Client) SearchKnowledge(ctx context.Context, query string, limit int) ([]KnowledgeEntry, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/knowledge-base?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build knowledge query: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("query knowledge base: backend returned %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode knowledge response: %w", err)
	}
	var rows []knowledgeEntryPayload
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, fmt.Errorf("decode knowledge entries: %w", err)
		}
	}
	entries := make([]KnowledgeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, KnowledgeEntry{
			ID:       idString(row.ID),
			Question: row.Question,
			Answer:   row.Answer,
			Keywords: row.Keywords,
			Phrases:  row.Phrases,
			Tags:     row.Tags,
		})
	}
	return entries, nil
}

func decodeHelpRequest(r io.Reader) (*HelpRequest, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode help request: %w", err)
	}
	var payload helpRequestPayload
	if len(env.Data) > 0 {
		// Malformed data degrades to safe defaults rather than failing.
		_ = json.Unmarshal(env.Data, &payload)
	}
	req := &HelpRequest{
		ID:       idString(payload.ID),
		Question: payload.Question,
		Status:   payload.Status,
		Answer:   payload.Answer,
	}
	if req.Status == "" {
		req.Status = StatusPending
	}
	return req, nil
}

// idString accepts both string and numeric ids from the backend.
func idString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func readSnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(data))
}
