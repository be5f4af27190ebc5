package errors

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the client facing hint and any reportable details
type ErrorDetail struct {
	Display string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// CodeFromErr returns the machine readable code of the sentinel err is marked with
func CodeFromErr(err error) string {
	for _, sc := range statusCodes {
		if Is(err, sc.err) {
			if ie, ok := sc.err.(*InternalError); ok {
				return ie.Code
			}
		}
	}
	return ErrCodeSystemError
}
