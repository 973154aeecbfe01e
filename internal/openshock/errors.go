package openshock

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx reply from the OpenShock API. Message carries the
// human-readable explanation extracted from the response body when the API
// provided one.
type APIError struct {
	Status  int
	Body    string
	Message string
}

// NewAPIError builds an APIError from a raw response, probing the body for
// the "message" field OpenShock error payloads carry.
func NewAPIError(status int, body string) *APIError {
	message := ""
	if gjson.Valid(body) {
		if m := gjson.Get(body, "message"); m.Exists() {
			message = m.String()
		}
	}
	return &APIError{Status: status, Body: body, Message: message}
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("OpenShock API error: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("OpenShock API error: HTTP %d %s", e.Status, http.StatusText(e.Status))
}
