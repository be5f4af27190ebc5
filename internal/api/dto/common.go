package dto

import (
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// parseEnum normalizes value against allowed, naming field in the error
func parseEnum[T ~string](field, value string, allowed []T) (T, error) {
	v, ok := types.ParseEnum(value, allowed)
	if !ok {
		return v, ierr.NewErrorf("invalid %s %q", field, value).
			WithHintf("%s must be one of %v", field, types.EnumStrings(allowed)).
			WithReportableDetails(map[string]any{
				field:     value,
				"allowed": types.EnumStrings(allowed),
			}).
			Mark(ierr.ErrValidation)
	}
	return v, nil
}

func parseEnums[T ~string](field string, values []string, allowed []T) ([]T, error) {
	out := make([]T, 0, len(values))
	for _, value := range values {
		v, err := parseEnum(field, value, allowed)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
