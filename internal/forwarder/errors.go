package forwarder

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a forwarding failure by where it happened.
type Kind int

const (
	KindNone        Kind = iota // not a forwarding failure
	KindTransport               // helper could not be reached
	KindService                 // helper replied with a non-2xx status
	KindDecode                  // helper replied with an unparseable body
	KindApplication             // helper understood the request and refused it
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindService:
		return "service"
	case KindDecode:
		return "decode"
	case KindApplication:
		return "application"
	default:
		return "none"
	}
}

// TransportError is returned when no HTTP response was obtained.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError is returned when the helper answers with a non-2xx status.
// Message carries the helper's explanation when the error body had one.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("service returned error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// DecodeError is returned when the response body is not a valid reply.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ApplicationError is returned when the helper reports a logical failure.
// Its Error text is the helper's message, verbatim.
type ApplicationError struct {
	Status  string
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// KindOf returns the failure kind of err, looking through wrapping.
func KindOf(err error) Kind {
	var (
		transportErr   *TransportError
		serviceErr     *ServiceError
		decodeErr      *DecodeError
		applicationErr *ApplicationError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &serviceErr):
		return KindService
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &applicationErr):
		return KindApplication
	default:
		return KindNone
	}
}
