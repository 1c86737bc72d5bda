package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	gocache "github.com/patrickmn/go-cache"

	"frontdeskbot/internal/backend"
	"frontdeskbot/internal/kb"
	"frontdeskbot/internal/session"
)

// errKnowledgeNotFound is the exact token the model is instructed to react to
// by escalating.
var errKnowledgeNotFound = errors.New("knowledge_not_found")

const (
	remoteAnswerTTL    = 5 * time.Minute
	remoteCacheCleanup = 10 * time.Minute
	defaultRemoteLimit = 1
)

// LookupTool answers a question from the knowledge base. The remote backend
// is consulted first when configured; local scoring is the fallback, gated by
// the confidence threshold.
type LookupTool struct {
	Backend   *backend.Client
	KB        *kb.KnowledgeBase
	Threshold float64

	remoteCache *gocache.Cache
}

func NewLookupTool(client *backend.Client, store *kb.KnowledgeBase, threshold float64) *LookupTool {
	if threshold <= 0 {
		threshold = kb.DefaultConfidenceThreshold
	}
	return &LookupTool{
		Backend:     client,
		KB:          store,
		Threshold:   threshold,
		remoteCache: gocache.New(remoteAnswerTTL, remoteCacheCleanup),
	}
}

func (t *LookupTool) Name() string { return "lookup_knowledge_base" }

func (t *LookupTool) Description() string {
	return "Search the salon knowledge base for the best matching answer. Returns the answer text if found; reports knowledge_not_found when no confident match exists."
}

func (t *LookupTool) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"question": {Type: "string", Description: "The caller's question, in their own words."},
			"limit":    {Type: "integer", Description: "Maximum number of remote matches to consider."},
		},
		Required: []string{"question"},
	}
}

type lookupArgs struct {
	Question string `json:"question"`
	Limit    int    `json:"limit"`
}

func (t *LookupTool) Invoke(ctx context.Context, sess *session.Session, args json.RawMessage) (string, error) {
	var in lookupArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid lookup arguments: %w", err)
	}
	if strings.TrimSpace(in.Question) == "" {
		return "", fmt.Errorf("question is required")
	}
	if in.Limit <= 0 {
		in.Limit = defaultRemoteLimit
	}

	if answer, ok := t.remoteLookup(ctx, in.Question, in.Limit); ok {
		return answer, nil
	}

	entry, confidence := t.KB.Match(in.Question)
	if entry == nil || confidence < t.Threshold {
		log.Printf("knowledge lookup miss question=%q confidence=%.2f threshold=%.2f", in.Question, confidence, t.Threshold)
		return "", errKnowledgeNotFound
	}
	log.Printf("knowledge lookup hit entry=%s confidence=%.2f", entry.ID, confidence)
	return entry.Answer, nil
}

// remoteLookup queries the backend knowledge base, caching answers briefly so
// repeated phrasings within one call don't hammer the service. Remote errors
// fall through to local scoring.
func (t *LookupTool) remoteLookup(ctx context.Context, question string, limit int) (string, bool) {
	if !t.Backend.Configured() {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(question))
	if cached, ok := t.remoteCache.Get(key); ok {
		return cached.(string), true
	}

	entries, err := t.Backend.SearchKnowledge(ctx, question, limit)
	if err != nil {
		log.Printf("remote knowledge lookup error: %v", err)
		return "", false
	}
	for _, entry := range entries {
		if entry.Answer != "" {
			t.remoteCache.Set(key, entry.Answer, gocache.DefaultExpiration)
			return entry.Answer, true
		}
	}
	return "", false
}
