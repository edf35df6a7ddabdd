// Package sharing builds and issues share-creation requests from a
// selection snapshot and share settings, and holds the resulting share
// descriptor.
package sharing

import "errors"

// Share session errors.
var (
	ErrNoImages         = errors.New("no images selected to share")
	ErrMissingTitle     = errors.New("share title is required")
	ErrEmptyPassword    = errors.New("password protection enabled without a password")
	ErrInvalidMaxAccess = errors.New("max access must be a positive number")
	ErrShareExists      = errors.New("share already created, reset before recreating")
	ErrBusy             = errors.New("share creation in progress")
)
