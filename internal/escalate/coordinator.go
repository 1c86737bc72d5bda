// Package escalate forwards unanswered questions to a human supervisor and
// relays the eventual answer back into the still-live conversation.
package escalate

import (
	"context"
	"log"
	"time"

	"frontdeskbot/internal/backend"
	"frontdeskbot/internal/session"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 180 * time.Second
)

// Result is what the conversation layer gets back from Escalate. Escalation
// failures are reported here, never raised; the conversation continues
// regardless of outcome.
type Result struct {
	Escalated bool   `json:"escalated"`
	Duplicate bool   `json:"duplicate,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Coordinator owns at most one outstanding help request per session. It
// creates the backend request and spawns the resolution poller; delivery of
// the eventual answer happens out of band after Escalate has returned.
type Coordinator struct {
	backend      *backend.Client
	channel      string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewCoordinator(client *backend.Client, channel string, pollInterval, pollTimeout time.Duration) *Coordinator {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &Coordinator{
		backend:      client,
		channel:      channel,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

// Escalate files the question with the supervisor queue. A second call while
// a request is pending is an idempotent no-op that reports the existing
// request without re-checking the backend. Transport failures come back as a
// non-escalated Result; the only retry path is a fresh call.
func (c *Coordinator) Escalate(ctx context.Context, question string, sess *session.Session) Result {
	if id := sess.PendingRequestID(); id != "" {
		log.Printf("escalation already pending request=%s, skipping duplicate", id)
		return Result{Escalated: true, Duplicate: true, RequestID: id, Status: backend.StatusPending}
	}

	if !c.backend.Configured() {
		// Degraded mode: no backend address. Log the question so a human can
		// still find it; the caller never sees this as a failure.
		log.Printf("escalation requested but no backend is configured: question=%q", question)
		return Result{Escalated: false, Reason: "backend address not configured"}
	}

	name, phone := sess.Caller()
	created, err := c.backend.CreateHelpRequest(ctx, backend.CreateHelpRequestParams{
		Question:      question,
		CustomerPhone: phone,
		CustomerName:  name,
		Channel:       c.channel,
	})
	if err != nil {
		log.Printf("create help request failed: %v", err)
		return Result{Escalated: false, Reason: err.Error()}
	}
	log.Printf("created help request id=%s question=%q", created.ID, question)

	pollCtx, cancel := context.WithCancel(context.Background())
	cleanup := sess.StartEscalation(created.ID, question, cancel)

	p := &poller{
		backend:   c.backend,
		requestID: created.ID,
		interval:  c.pollInterval,
		budget:    c.pollTimeout,
		delivery:  sess.Delivery(),
		cleanup:   cleanup,
	}
	go func() {
		outcome := p.run(pollCtx)
		log.Printf("resolution poll finished request=%s outcome=%s", created.ID, outcome)
	}()

	status := created.Status
	if status == "" {
		status = backend.StatusPending
	}
	return Result{Escalated: true, RequestID: created.ID, Status: status}
}
