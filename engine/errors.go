package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNilParam indicates a required parameter or collaborator is nil.
	ErrNilParam = errors.New("engine: required parameter is nil")

	// ErrInvalidAmount indicates the requested transfer total is zero or
	// not representable at the configured precision.
	ErrInvalidAmount = errors.New("engine: invalid transfer amount")

	// ErrInvalidCosignerAuth indicates the configured cosigner public key
	// could not be parsed.
	ErrInvalidCosignerAuth = errors.New("engine: invalid cosigner authorization key")

	// ErrSourceTxFetch indicates a consumed input's full source
	// transaction could not be fetched.
	ErrSourceTxFetch = errors.New("engine: source transaction fetch failed")

	// ErrInvalidAPIKey indicates the cosigner rejected the API credentials.
	ErrInvalidAPIKey = errors.New("engine: invalid api key")

	// ErrCosignerRejected indicates the cosigner refused to countersign.
	ErrCosignerRejected = errors.New("engine: cosigner rejected transaction")

	// ErrBroadcastFailed indicates the broadcaster refused the cosigned
	// transaction. Logged, never returned from Transfer: the cosigner has
	// already accepted the transaction by then.
	ErrBroadcastFailed = errors.New("engine: broadcast failed")

	// ErrInvariantViolation indicates a classified transaction does not
	// conserve token amounts across inputs and outputs.
	ErrInvariantViolation = errors.New("engine: token amount invariant violated")

	// ErrTxNotFound indicates the requested transaction does not exist.
	ErrTxNotFound = errors.New("engine: transaction not found")
)

// HTTPError carries the status of a failed collaborator HTTP call so the
// engine can distinguish credential failures from protocol rejections.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("engine: http status %d: %s", e.Status, e.Body)
}
