package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
)

// bindListFilter reads pagination into a QueryFilter and compiles every
// other query parameter against schema. Keys in reserved are consumed by the
// handler itself and never reach the compiler.
func bindListFilter(c *gin.Context, schema *filter.Schema, reserved ...string) (*filter.ListFilter, error) {
	var qf types.QueryFilter
	if err := c.ShouldBindQuery(&qf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation)
	}
	if qf.Limit == nil {
		qf.Limit = lo.ToPtr(types.FILTER_DEFAULT_LIMIT)
	}
	if err := qf.Validate(); err != nil {
		return nil, err
	}

	params := lo.OmitByKeys(map[string][]string(c.Request.URL.Query()), append(types.PaginationKeys, reserved...))
	expr, err := schema.Compile(params)
	if err != nil {
		return nil, err
	}
	return filter.NewListFilter(expr, &qf), nil
}

// header returns the value of name and whether the request carried it at all
func header(c *gin.Context, name string) (string, bool) {
	values := c.Request.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// expectedVersion parses the If-Match token a write must carry
func expectedVersion(c *gin.Context) (int64, error) {
	return version.Parse(header(c, types.HeaderIfMatch))
}

// writeVersioned answers a single entity read. A matching If-None-Match
// short circuits to 304 with no body.
func writeVersioned(c *gin.Context, v int64, body any) {
	c.Header(types.HeaderETag, version.Format(v))
	ifNoneMatch, present := header(c, types.HeaderIfNoneMatch)
	if version.NotModified(ifNoneMatch, present, v) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, body)
}

// writeWritten answers a create or update with the new version as ETag
func writeWritten(c *gin.Context, status int, v int64, body any) {
	c.Header(types.HeaderETag, version.Format(v))
	c.JSON(status, body)
}

func invalidRequest(c *gin.Context, err error) {
	c.Error(ierr.WithError(err).
		WithHint("Invalid request format").
		Mark(ierr.ErrValidation))
}

// boundBody returns the request body cached by ShouldBindBodyWith
func boundBody(c *gin.Context) []byte {
	if raw, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := raw.([]byte); ok {
			return body
		}
	}
	return nil
}
