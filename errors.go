package websuite

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by a Session operation wraps one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrServerUnreachable means the remote automation server did not answer
	// the reachability probe within the retry ceiling.
	ErrServerUnreachable = errors.New("remote automation server unreachable")
	// ErrElementNotFound means a locator resolved to nothing when an
	// interaction needed an element.
	ErrElementNotFound = errors.New("element not found")
	// ErrPageSignature means the page body matched a known failure signature.
	ErrPageSignature = errors.New("failure signature found in page")
	// ErrTimeout means a wait exhausted its budget.
	ErrTimeout = errors.New("waited too long")
	// ErrNavigation means the browser could not be sent to a URL.
	ErrNavigation = errors.New("navigation failed")
	// ErrVerification means a Verify* assertion did not hold.
	ErrVerification = errors.New("verification failed")
)

// ConnectionError is returned when the session could not reach the server.
type ConnectionError struct {
	Addr     string
	Attempts int
	// Err is the last transport error, if the server never answered at all.
	Err error
}

func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("couldn't connect to Selenium Server on %s after %d attempts", e.Addr, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrServerUnreachable }

// ElementError reports a locator that did not resolve during an interaction.
type ElementError struct {
	Locator string
	Op      string
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s: for some reason {%s} element was not found", e.Op, e.Locator)
}

func (e *ElementError) Is(target error) bool { return target == ErrElementNotFound }

// PageError carries the page signature that matched.
type PageError struct {
	Signature Signature
}

func (e *PageError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Signature.Name, e.Signature.Message)
}

func (e *PageError) Is(target error) bool { return target == ErrPageSignature }

// TimeoutError is returned by Poller when the condition never reached its
// target value.
type TimeoutError struct {
	// Elapsed is the wait counter at the moment the poll gave up, in units of
	// the poll interval.
	Elapsed     int
	Description string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("waited too long (%d seconds) for %s", e.Elapsed, e.Description)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NavigationError wraps the remote error from a failed Navigate.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigating to %q failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

func (e *NavigationError) Is(target error) bool { return target == ErrNavigation }

func verifyErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrVerification}, args...)...)
}
