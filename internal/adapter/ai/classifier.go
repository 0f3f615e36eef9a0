package ai

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// retryableMarkers are matched case-insensitively against the error message.
// They cover provider quota and overload wording across SDK versions.
var retryableMarkers = []string{
	"quota",
	"rate limit",
	"rate_limit",
	"resource_exhausted",
	"rpc failed",
	"xhr error",
	"unavailable",
	"429",
	"500",
}

// Retryable reports whether err is a transient provider failure worth
// retrying. Quota exhaustion (429), provider-side faults (500), and transport
// errors qualify; everything else is treated as permanent.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) &&
		(apiErr.Code == http.StatusTooManyRequests || apiErr.Code == http.StatusInternalServerError) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// An unexpected code can still carry quota or overload wording, so the
	// marker scan runs for every error.
	msg := strings.ToLower(err.Error())
	for _, m := range retryableMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
