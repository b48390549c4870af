package httpclient

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// APIError is returned when the portal answers with a non-2xx status.
type APIError struct {
	StatusCode int
	// Detail is the "detail" string of the error body, if the server sent one.
	Detail string
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// TransportError is returned when no response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Network Error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when a response body does not have the expected shape.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected response from server: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// parseAPIError builds an APIError from a failed response body.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}
	if gjson.ValidBytes(body) {
		if detail := gjson.GetBytes(body, "detail"); detail.Type == gjson.String {
			apiErr.Detail = detail.String()
		}
	}
	return apiErr
}

// Message reduces err to a displayable string: the API detail message when
// the server sent one, else the transport or status message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}
	return err.Error()
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
