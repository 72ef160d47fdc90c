package portal

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialsRejected = errors.New("credentials rejected")
	ErrOTPTriggerFailed    = errors.New("OTP trigger failed")
	ErrInvalidOTPOrSession = errors.New("invalid OTP or session")
	ErrTransportFailure    = errors.New("transport failure")

	// ErrRequestFailed is matched by every QueryError
	ErrRequestFailed = errors.New("portal request failed")
)

// AuthErrorKind classifies why an authentication attempt failed
type AuthErrorKind int

const (
	CredentialsRejected AuthErrorKind = iota + 1
	OTPTriggerFailed
	InvalidOTPOrSession
	TransportFailure
)

func (kind AuthErrorKind) sentinel() error {
	switch kind {
	case CredentialsRejected:
		return ErrCredentialsRejected
	case OTPTriggerFailed:
		return ErrOTPTriggerFailed
	case InvalidOTPOrSession:
		return ErrInvalidOTPOrSession
	case TransportFailure:
		return ErrTransportFailure
	default:
		return nil
	}
}

// String returns a short machine-friendly name of the kind
func (kind AuthErrorKind) String() string {
	switch kind {
	case CredentialsRejected:
		return "credentialsRejected"
	case OTPTriggerFailed:
		return "otpTriggerFailed"
	case InvalidOTPOrSession:
		return "invalidOtpOrSession"
	case TransportFailure:
		return "transportFailure"
	default:
		return fmt.Sprintf("AuthErrorKind(%d)", int(kind))
	}
}

// AuthError is returned by Client.Authenticate whenever the handshake did not end in an authenticated session.
// It matches the sentinel of its kind using errors.Is.
type AuthError struct {
	Kind AuthErrorKind

	// Step is the handshake step (1-3) the attempt failed at
	Step int

	// Status is the HTTP status code of the failing step, if a response was received
	Status int

	// Cause is the underlying error of transport failures
	Cause error
}

func (err *AuthError) Error() string {
	msg := fmt.Sprintf("portal authentication failed at step %d: %s", err.Step, err.Kind.sentinel())
	if err.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", err.Status)
	}
	if err.Cause != nil {
		msg += ": " + err.Cause.Error()
	}
	return msg
}

// Is reports whether target is the sentinel of the error's kind
func (err *AuthError) Is(target error) bool {
	sentinel := err.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

func (err *AuthError) Unwrap() error {
	return err.Cause
}

// QueryError is returned by Client.Query whenever the portal could not be reached or did not answer with 200 OK
type QueryError struct {
	URL    string
	Status int
	Cause  error
}

func (err *QueryError) Error() string {
	msg := ErrRequestFailed.Error() + ": POST " + err.URL
	if err.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", err.Status)
	}
	if err.Cause != nil {
		msg += ": " + err.Cause.Error()
	}
	return msg
}

// Is reports whether target is ErrRequestFailed
func (err *QueryError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (err *QueryError) Unwrap() error {
	return err.Cause
}
