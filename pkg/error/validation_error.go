package error

import "net/http"

// ValidationError rejects malformed request input: bad payload shape, an
// out-of-range rating, an unknown department position. Rendered as a 400.
type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}
