package inscription

import "errors"

var (
	// ErrInvalidAddress indicates the recipient address could not be decoded.
	ErrInvalidAddress = errors.New("inscription: invalid address")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("inscription: required parameter is nil")

	// ErrScriptBuild indicates locking script construction failed.
	ErrScriptBuild = errors.New("inscription: script build failed")

	// ErrInvalidPayload indicates the token payload is malformed.
	ErrInvalidPayload = errors.New("inscription: invalid token payload")
)
