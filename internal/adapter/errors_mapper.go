package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const maxErrorBody = 256

// mapHTTPError returns nil for a 2xx answer of an upstream service and a
// wrapped sentinel otherwise. At most maxErrorBody bytes of the body are
// kept in the message.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if body == "" {
		body = http.StatusText(status)
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrUpstreamAuth
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		sentinel = ErrBadRequest
	default:
		sentinel = ErrUpstreamUnavailable
	}

	return fmt.Errorf("%w (http %d): %s", sentinel, status, body)
}
