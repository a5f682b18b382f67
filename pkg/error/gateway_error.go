package error

import "net/http"

// GatewayError marks failures talking to the WhatsApp gateway. Callers treat
// these as retryable; they are never surfaced as blocking UI errors.
type GatewayError string

func (err GatewayError) Error() string {
	return string(err)
}

func (err GatewayError) ErrCode() string {
	return "GATEWAY_ERROR"
}

func (err GatewayError) StatusCode() int {
	return http.StatusBadGateway
}
