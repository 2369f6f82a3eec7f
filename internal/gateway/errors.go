package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the backend. Message is extracted
// best-effort from the JSON error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// IsAuthError reports whether err is an authentication failure. Callers route
// these to sign-in instead of showing them inline.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// decodeError builds an APIError from a failed response, pulling a message
// from common JSON error body shapes when one is present.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Detail != "":
			apiErr.Message = body.Detail
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
