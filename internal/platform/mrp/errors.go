package mrp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous result")
)

// TransportError reports a failed HTTP exchange: either the request never
// got a response (Err is set) or the status code was not the expected one.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Reason     string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.URL, e.StatusCode, e.Reason)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a lookup with no match.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with %s", e.Resource, e.Key)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguousResultError reports a lookup that had to be unique but matched
// several records. Matches holds all of them for diagnosis.
type AmbiguousResultError struct {
	Resource string
	Key      string
	Matches  []Machine
}

func (e *AmbiguousResultError) Error() string {
	names := make([]string, 0, len(e.Matches))
	for _, m := range e.Matches {
		names = append(names, fmt.Sprintf("%s (id %d)", m.Name, m.ID))
	}
	return fmt.Sprintf("more than one %s found with %s: %s", e.Resource, e.Key, strings.Join(names, ", "))
}

// Is matches ErrAmbiguous.
func (e *AmbiguousResultError) Is(target error) bool {
	return target == ErrAmbiguous
}

// CreationError reports an upload the provisioner rejected. Payload is the
// request metadata and Cause.Body the server's error document.
type CreationError struct {
	Resource string
	Payload  string
	Cause    *TransportError
}

func (e *CreationError) Error() string {
	msg := fmt.Sprintf("create %s: %v\nrequest data: %s", e.Resource, e.Cause, e.Payload)
	if len(e.Cause.Body) > 0 {
		msg += "\nresult json: " + string(e.Cause.Body)
	}
	return msg
}

func (e *CreationError) Unwrap() error {
	return e.Cause
}

// UpdateError reports a rejected machine parameter update.
type UpdateError struct {
	MachineID int64
	Payload   string
	Cause     *TransportError
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update machine %d: %v", e.MachineID, e.Cause)
}

func (e *UpdateError) Unwrap() error {
	return e.Cause
}

// ProvisionError reports a rejected provision state transition.
type ProvisionError struct {
	MachineID int64
	Cause     *TransportError
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision machine %d: %v", e.MachineID, e.Cause)
}

func (e *ProvisionError) Unwrap() error {
	return e.Cause
}

// IsNotFound checks if an error indicates a lookup found nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguous checks if an error indicates a lookup matched several records.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// rejected returns the TransportError behind err if the server answered
// with an unexpected status, as opposed to the request failing outright.
func rejected(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) && te.StatusCode != 0 {
		return te, true
	}
	return nil, false
}

// reason returns the reason phrase for a status line such as "404 NOT FOUND".
func reason(resp *http.Response) string {
	if _, after, ok := strings.Cut(resp.Status, " "); ok {
		return after
	}
	return http.StatusText(resp.StatusCode)
}
