package banner

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a step of the registration run failed.
type ErrorKind int

const (
	// KindTransport is a network, DNS or TLS failure, no response was read.
	KindTransport ErrorKind = iota + 1
	// KindStatus is any response with a status other than 200.
	KindStatus
	// KindAuthentication means the portal rejected the credentials.
	KindAuthentication
	// KindScrape means something required was missing from a response.
	KindScrape
	// KindState means a step was called out of order.
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindAuthentication:
		return "authentication"
	case KindScrape:
		return "scrape"
	case KindState:
		return "state"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var ErrAuthorizationFailure = errors.New("authorization failure, likely bad credentials")
var ErrMissingSessionCookie = errors.New("response did not set a session cookie")

// Error is returned by every Client operation.
type Error struct {
	Kind ErrorKind
	// Step is the portal procedure (or client method) that failed.
	Step       string
	StatusCode int
	// Body holds the response html for Status and Authentication errors.
	Body string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failure", e.Step, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var berr *Error
	if errors.As(err, &berr) {
		return berr.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
