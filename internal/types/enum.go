package types

import "strings"

// ParseEnum resolves value against allowed ignoring case and surrounding
// whitespace. The second return value is false when nothing matches; callers
// decide whether that is an error or simply a value that matches nothing.
func ParseEnum[T ~string](value string, allowed []T) (T, bool) {
	v := strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(string(a), v) {
			return a, true
		}
	}
	var zero T
	return zero, false
}

// EnumStrings returns the labels of an enum value set
func EnumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
