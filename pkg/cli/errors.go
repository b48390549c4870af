package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

// Common CLI errors
var (
	ErrPasswordRequired = errors.New("password required: pass --password and --confirm-password")
	ErrNoToken          = errors.New("no token: pass --token or set ALINFO_TOKEN")
)

// StoreError is a rejected action, reported with the message its family's
// store now holds.
type StoreError struct {
	Family  string
	Message string
	// Err is the failure behind the rejection, kept for formatting hints.
	Err error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// settle turns the result of an action into the command's error: the guard
// error when the action was blocked, a StoreError carrying the store's error
// when it was rejected, and nil when it was fulfilled.
func settle[E slice.Entity, R any](store *slice.Slice[E], out action.Outcome[R], err error) error {
	if err != nil {
		return err
	}
	if out.Phase != action.Rejected {
		return nil
	}
	msg := store.State().Error
	if msg == "" {
		// The settlement was superseded; report it anyway.
		msg = out.Message
	}
	return &StoreError{Family: store.Family(), Message: msg, Err: out.Err}
}

// FormatError returns a user-friendly message for err, with suggestions when
// the cause is a known one.
func FormatError(err error) string {
	var transportErr *httpclient.TransportError
	if errors.As(err, &transportErr) {
		return FormatConnectionError(transportErr)
	}

	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
		return fmt.Sprintf(`Error: %s

Suggestions:
  • Your token may have expired: run alinfo session set <user-id> --token <token>
  • Check the token in use with: alinfo session show`, err)
	}

	if errors.Is(err, portal.ErrNoSession) {
		return fmt.Sprintf(`Error: %s

Suggestions:
  • Sign in with: alinfo session set <user-id> --token <token>`, err)
	}

	return "Error: " + err.Error()
}

// FormatConnectionError returns a user-friendly error message for a portal
// that could not be reached.
func FormatConnectionError(err *httpclient.TransportError) string {
	backend := err.URL
	if i := strings.Index(backend, "://"); i >= 0 {
		if j := strings.Index(backend[i+3:], "/"); j >= 0 {
			backend = backend[:i+3+j]
		}
	}
	return fmt.Sprintf(`Error: %s

Suggestions:
  • Check the portal is running at %s
  • Verify the backend URL with: alinfo config show
  • Set it with --backend-url, or ALINFO_BACKEND_URL when ALINFO_ENV=production`, err, backend)
}
