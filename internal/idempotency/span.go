package idempotency

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// Outcome is how a replay cache operation ended
type Outcome string

const (
	OutcomeHit      Outcome = "hit"
	OutcomeMiss     Outcome = "miss"
	OutcomeMismatch Outcome = "fingerprint_mismatch"
	OutcomeCorrupt  Outcome = "corrupt"
	OutcomeRecorded Outcome = "recorded"
)

// startReplaySpan opens a span named after the idempotency scope, e.g.
// "idempotency.invoice_payment.lookup". It returns nil when the request
// carries no Sentry hub.
func startReplaySpan(ctx context.Context, scope Scope, operation string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache."+operation)
	span.Description = "idempotency." + string(scope) + "." + operation
	span.SetTag("idempotency.scope", string(scope))
	return span
}

// finishReplaySpan records the outcome and closes span. Only a corrupt
// record counts as a failure; a mismatch is a client error.
func finishReplaySpan(span *sentry.Span, outcome Outcome) {
	if span == nil {
		return
	}
	span.SetTag("idempotency.outcome", string(outcome))
	span.SetData("cache.hit", outcome == OutcomeHit)
	switch outcome {
	case OutcomeCorrupt:
		span.Status = sentry.SpanStatusDataLoss
	case OutcomeMismatch:
		span.Status = sentry.SpanStatusInvalidArgument
	default:
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
