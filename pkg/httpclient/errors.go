package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/tausif1337/remart/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx HTTP response from an
// upstream service and translates it into an appropriate AppError. The caller
// should only invoke this when resp.StatusCode indicates an error. The
// response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstream, resp.StatusCode, err)
	}

	msg := fmt.Sprintf("%s: status %d: %s", upstream, resp.StatusCode, string(bodyBytes))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(upstream, resp.Request.URL.Path)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(msg)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(msg)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return apperrors.PaymentFailed(msg)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", upstream, resp.StatusCode, string(bodyBytes))
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: msg,
			Status:  resp.StatusCode,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
