// Package version implements the optimistic concurrency tokens exchanged with
// clients as ETags. A token is a non-negative integer wrapped in double
// quotes, e.g. "3". The package only classifies tokens; it never mutates the
// version of a stored entity.
package version

import (
	"strconv"
	"strings"

	ierr "github.com/tallybank/tallybank/internal/errors"
)

// Format renders a stored version as a token
func Format(v int64) string {
	return `"` + strconv.FormatInt(v, 10) + `"`
}

// Parse decodes a token read from a request header. present reports whether
// the header was sent at all.
func Parse(header string, present bool) (int64, error) {
	if !present {
		return 0, ierr.NewError("version token missing").
			WithHint("This request requires an If-Match header carrying the current version").
			Mark(ierr.ErrVersionRequired)
	}

	token := strings.TrimSpace(header)
	if len(token) < 3 || token[0] != '"' || token[len(token)-1] != '"' {
		return 0, malformed(header)
	}
	interior := token[1 : len(token)-1]
	for _, r := range interior {
		if r < '0' || r > '9' {
			return 0, malformed(header)
		}
	}
	v, err := strconv.ParseInt(interior, 10, 64)
	if err != nil {
		return 0, malformed(header)
	}
	return v, nil
}

func malformed(header string) error {
	return ierr.NewErrorf("malformed version token %q", header).
		WithHint(`Version tokens must be a quoted non-negative integer such as "3"`).
		WithReportableDetails(map[string]any{
			"token": header,
		}).
		Mark(ierr.ErrVersionMalformed)
}

// Compare classifies an already parsed token against the stored version
func Compare(v, stored int64) error {
	switch {
	case v == stored:
		return nil
	case v < stored:
		return ierr.NewErrorf("stale version %d, current is %d", v, stored).
			WithHint("The resource was modified since you last read it, reload and retry").
			WithVersions(v, stored).
			Mark(ierr.ErrVersionStale)
	default:
		return ierr.NewErrorf("version %d is ahead of current %d", v, stored).
			WithHint("The version you sent does not exist yet").
			WithVersions(v, stored).
			Mark(ierr.ErrVersionAhead)
	}
}

// Check parses a header and compares it with the stored version
func Check(header string, present bool, stored int64) error {
	v, err := Parse(header, present)
	if err != nil {
		return err
	}
	return Compare(v, stored)
}

// NotModified reports whether a conditional read may answer 304. Any header
// that is absent or not a single valid token never matches.
func NotModified(ifNoneMatch string, present bool, stored int64) bool {
	if !present {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	v, err := Parse(ifNoneMatch, true)
	if err != nil {
		return false
	}
	return v == stored
}
