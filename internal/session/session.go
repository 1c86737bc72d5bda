// Package session holds the per-conversation state shared between the
// foreground conversation turn and the background resolution poller.
package session

import (
	"context"
	"sync"
)

// DeliveryChannel speaks a message into the ongoing conversation. Say blocks
// until the message is delivered or the context is cancelled. Failures are a
// signal, not a fatal condition; callers log and move on.
type DeliveryChannel interface {
	Say(ctx context.Context, message string, allowInterruptions bool) error
}

// Session is the in-memory state for one conversation. Nothing here survives
// a process restart.
//
// Write discipline for the escalation fields: only the coordinator sets them
// (via StartEscalation), only the owning poller clears them (via the cleanup
// func StartEscalation returns), and the conversation layer just reads. That
// keeps the at-most-one-outstanding-escalation invariant without any other
// coordination.
type Session struct {
	mu       sync.Mutex
	delivery DeliveryChannel

	callerName  string
	callerPhone string

	pendingRequestID string
	pendingQuestion  string
	cancelPoll       context.CancelFunc
}

func New(delivery DeliveryChannel) *Session {
	return &Session{delivery: delivery}
}

func (s *Session) Delivery() DeliveryChannel {
	return s.delivery
}

func (s *Session) SetCallerName(name string) {
	s.mu.Lock()
	s.callerName = name
	s.mu.Unlock()
}

func (s *Session) SetCallerPhone(phone string) {
	s.mu.Lock()
	s.callerPhone = phone
	s.mu.Unlock()
}

func (s *Session) Caller() (name, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callerName, s.callerPhone
}

// PendingRequestID returns the id of the outstanding help request, or "".
func (s *Session) PendingRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingRequestID
}

// PendingQuestion returns the question text of the outstanding escalation.
func (s *Session) PendingQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingQuestion
}

// StartEscalation records a newly created help request and the cancel handle
// of its poller. Any orphaned handle from a previous escalation is cancelled
// first; that poller then runs its own cleanup, which the returned capability
// scopes to this request id so it cannot clobber the new escalation.
//
// The returned func is the only way to clear the pending fields. It is handed
// to the poller and must be called on every terminal transition.
func (s *Session) StartEscalation(requestID, question string, cancel context.CancelFunc) (cleanup func()) {
	s.mu.Lock()
	orphan := s.cancelPoll
	s.pendingRequestID = requestID
	s.pendingQuestion = question
	s.cancelPoll = cancel
	s.mu.Unlock()

	if orphan != nil {
		orphan()
	}
	return func() { s.clearEscalation(requestID) }
}

// CancelPendingPoll cancels the outstanding poller, if any. The poller treats
// this as a normal terminal transition and clears the pending fields itself.
// Used when the conversation ends.
func (s *Session) CancelPendingPoll() {
	s.mu.Lock()
	cancel := s.cancelPoll
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Session) clearEscalation(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingRequestID != requestID {
		// A newer escalation superseded this one after cancellation; its
		// state is not ours to touch.
		return
	}
	s.pendingRequestID = ""
	s.pendingQuestion = ""
	s.cancelPoll = nil
}
