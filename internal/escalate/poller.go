package escalate

import (
	"context"
	"errors"
	"log"
	"time"

	"frontdeskbot/internal/backend"
	"frontdeskbot/internal/session"
)

// Outcome is the terminal state of a resolution poll.
type Outcome string

const (
	OutcomeDelivered   Outcome = "delivered"
	OutcomeTimedOut    Outcome = "timed-out"
	OutcomeCancelled   Outcome = "cancelled"
	OutcomeBackendGone Outcome = "backend-gone"
)

// What the assistant says on each terminal transition. The confirmed-answer
// prefix and the pending follow-up wording come from the supervisor script.
const (
	confirmedPrefix       = "My supervisor just confirmed: "
	detailsToFollowMsg    = "I just checked with my supervisor. They'll text you the details as soon as they see this."
	stillCheckingMsg      = "We're still checking on that for you. My supervisor will follow up with you directly as soon as they have the answer."
	patienceMsg           = "Thanks for your patience. My supervisor hasn't been able to confirm that yet, so they'll reach out to you directly with the answer."
	backendGoneApologyMsg = "I'm sorry, I wasn't able to get an answer on that one. Someone from the team will follow up with you shortly."
)

// poller watches one help request until it resolves, times out, or is
// superseded. Each tick sleeps the fixed interval and then fetches the
// request; transient backend errors keep it polling at the same cadence, and
// the wall-clock budget is the only bound on how long that can go on.
type poller struct {
	backend   *backend.Client
	requestID string
	interval  time.Duration
	budget    time.Duration
	delivery  session.DeliveryChannel
	cleanup   func()
}

// run loops until a terminal transition and returns the outcome. Cleanup of
// the session's pending fields is deferred so it runs on every exit path,
// including cancellation mid-sleep or mid-delivery.
func (p *poller) run(ctx context.Context) Outcome {
	outcome := OutcomeCancelled
	defer func() {
		p.cleanup()
	}()

	deadline := time.Now().Add(p.budget)
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Superseded or session ended: no delivery, just cleanup.
			return outcome
		case <-timer.C:
		}

		req, err := p.backend.GetHelpRequest(ctx, p.requestID)
		switch {
		case errors.Is(err, backend.ErrNotFound):
			outcome = OutcomeBackendGone
			p.say(ctx, backendGoneApologyMsg)
			return outcome
		case err != nil:
			if ctx.Err() != nil {
				return outcome
			}
			// Transient failure: the elapsed sleep already counted toward the
			// budget, and the next tick runs at the nominal interval.
			log.Printf("poll help request=%s error: %v", p.requestID, err)
		default:
			switch req.Status {
			case backend.StatusResolved:
				outcome = OutcomeDelivered
				if req.Answer != "" {
					p.say(ctx, confirmedPrefix+req.Answer)
				} else {
					p.say(ctx, detailsToFollowMsg)
				}
				return outcome
			case backend.StatusTimeout:
				outcome = OutcomeTimedOut
				p.say(ctx, stillCheckingMsg)
				return outcome
			}
		}

		if time.Now().After(deadline) {
			outcome = OutcomeTimedOut
			p.say(ctx, patienceMsg)
			return outcome
		}
		timer.Reset(p.interval)
	}
}

// say delivers into the live conversation without allowing interruptions.
// Delivery failure is logged, never retried; cleanup still proceeds.
func (p *poller) say(ctx context.Context, message string) {
	if p.delivery == nil {
		log.Printf("no delivery channel for request=%s, dropping message: %s", p.requestID, message)
		return
	}
	if err := p.delivery.Say(ctx, message, false); err != nil {
		log.Printf("deliver answer for request=%s failed: %v", p.requestID, err)
	}
}
