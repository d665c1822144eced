package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrSignatureFailed indicates signature generation failed for an input.
	ErrSignatureFailed = errors.New("tx: signature generation failed")

	// ErrRequestMismatch indicates a signature request does not reference
	// the input it was paired with.
	ErrRequestMismatch = errors.New("tx: signature request does not match input")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")
)
