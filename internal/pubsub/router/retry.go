package router

import (
	"context"
	goerrors "errors"
	"net"

	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/httpclient"
	"github.com/tallybank/tallybank/internal/logger"
)

// shouldRetry decides whether a failed ledger handler gets the message
// redelivered. Remote calls retry on transient statuses only; a lost
// version race on the ledger row retries; anything the message itself
// causes goes straight to the poison queue.
func shouldRetry(logger *logger.Logger, err error) bool {
	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		logger.Debugw("remote call failed while handling event",
			"method", httpErr.Method,
			"status_code", httpErr.StatusCode,
			"transient", httpErr.Transient(),
		)
		return httpErr.Transient()
	}

	if goerrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		logger.Debugw("retrying due to network timeout", "error", netErr)
		return true
	}

	switch {
	case ierr.IsVersionConflict(err), ierr.Is(err, ierr.ErrVersionStale):
		return true
	case ierr.IsValidation(err),
		ierr.IsNotFound(err),
		ierr.IsAlreadyExists(err),
		ierr.IsPermissionDenied(err),
		ierr.IsVersionError(err):
		return false
	}
	return true
}
