// Package gateway defines the remote image store interface consumed by the
// client state controller, its wire types, and an HTTP implementation.
// All remote operations are request/response calls returning a success flag
// plus a payload or a human-readable message.
package gateway

import "errors"

// Remote operation errors.
var (
	ErrRemoteFailure = errors.New("remote operation failed")
	ErrTransport     = errors.New("network error, please try again")
	ErrUnauthorized  = errors.New("authentication required")
	ErrDecode        = errors.New("malformed server response")
)
