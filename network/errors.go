package network

import "errors"

var (
	// ErrRequestFailed indicates the HTTP request could not be completed.
	ErrRequestFailed = errors.New("network: request failed")

	// ErrInvalidResponse indicates the service returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrBroadcastRejected indicates the node rejected the broadcast
	// transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")
)
