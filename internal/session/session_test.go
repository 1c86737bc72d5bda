package session

import (
	"context"
	"testing"
)

func TestStartEscalationSetsPendingState(t *testing.T) {
	s := New(nil)
	_, cancel := context.WithCancel(context.Background())
	cleanup := s.StartEscalation("hr-1", "do you do bridal packages", cancel)

	if got := s.PendingRequestID(); got != "hr-1" {
		t.Fatalf("expected pending request hr-1, got %q", got)
	}
	if got := s.PendingQuestion(); got != "do you do bridal packages" {
		t.Fatalf("unexpected pending question: %q", got)
	}

	cleanup()
	if got := s.PendingRequestID(); got != "" {
		t.Fatalf("expected cleanup to clear pending request, got %q", got)
	}
	if got := s.PendingQuestion(); got != "" {
		t.Fatalf("expected cleanup to clear pending question, got %q", got)
	}
}

func TestStartEscalationCancelsOrphanHandle(t *testing.T) {
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.StartEscalation("hr-1", "q1", cancel)

	_, cancel2 := context.WithCancel(context.Background())
	s.StartEscalation("hr-2", "q2", cancel2)

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected the orphaned poll context to be cancelled")
	}
	if got := s.PendingRequestID(); got != "hr-2" {
		t.Fatalf("expected new escalation to own the session, got %q", got)
	}
}

func TestStaleCleanupDoesNotClobberNewEscalation(t *testing.T) {
	s := New(nil)
	_, cancel1 := context.WithCancel(context.Background())
	staleCleanup := s.StartEscalation("hr-1", "q1", cancel1)

	_, cancel2 := context.WithCancel(context.Background())
	s.StartEscalation("hr-2", "q2", cancel2)

	// The superseded poller's cleanup runs late; it must leave hr-2 alone.
	staleCleanup()
	if got := s.PendingRequestID(); got != "hr-2" {
		t.Fatalf("stale cleanup clobbered the new escalation, pending=%q", got)
	}
}

func TestCancelPendingPoll(t *testing.T) {
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.StartEscalation("hr-1", "q1", cancel)

	s.CancelPendingPoll()
	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected CancelPendingPoll to cancel the poll context")
	}

	// No poller in this test, so no cleanup runs; cancelling again is a no-op.
	s.CancelPendingPoll()
}

func TestCallerFields(t *testing.T) {
	s := New(nil)
	s.SetCallerName("Dana")
	s.SetCallerPhone("+15550100")
	name, phone := s.Caller()
	if name != "Dana" || phone != "+15550100" {
		t.Fatalf("unexpected caller fields: %q %q", name, phone)
	}
}
