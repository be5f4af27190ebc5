package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// detailsPrefix tags the safe details that carry a JSON object meant for
// the client
const detailsPrefix = "__json__:"

// ErrorBuilder chains hints, details and a sentinel mark onto an error.
// It is not an error itself; Mark ends the chain.
type ErrorBuilder struct {
	err error
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError wraps an error returned by a library or another layer
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage prefixes the internal message, never shown to clients
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint sets the message rendered in the error response
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches fields rendered under "details"
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	marshaled, err := json.Marshal(details)
	if err != nil {
		return b
	}
	b.err = errors.WithSafeDetails(b.err, detailsPrefix+"%s", errors.Safe(string(marshaled)))
	return b
}

// WithVersions reports the version token a client sent next to the one
// stored, so a 412 tells the client what to reload
func (b *ErrorBuilder) WithVersions(provided, current int64) *ErrorBuilder {
	return b.WithReportableDetails(map[string]any{
		"provided": provided,
		"current":  current,
	})
}

// Mark attaches the sentinel that decides the status code and error code
func (b *ErrorBuilder) Mark(reference error) error {
	b.err = errors.Mark(b.err, reference)
	return b.err
}

// Error returns the built error without marking it
func (b *ErrorBuilder) Error() error {
	return b.err
}

// ReportableDetails merges every details object attached along the chain
func ReportableDetails(err error) map[string]any {
	details := make(map[string]any)
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			raw, ok := strings.CutPrefix(payload, detailsPrefix)
			if !ok || raw == "" {
				continue
			}
			var fields map[string]any
			if json.Unmarshal([]byte(raw), &fields) != nil {
				continue
			}
			for k, v := range fields {
				details[k] = v
			}
		}
	}
	return details
}
