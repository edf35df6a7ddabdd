// Package mutation provides the busy-guarded coordinator for remote
// mutations: upload, batch process, and batch delete. Collection-changing
// mutations trigger a collection refresh only when they fully succeed.
package mutation

import "errors"

// Mutation errors.
var (
	ErrBusy           = errors.New("another operation is in progress")
	ErrValidation     = errors.New("validation failed")
	ErrPartialFailure = errors.New("some operations failed")
	ErrNoFiles        = errors.New("no files to upload")
	ErrNoSelection    = errors.New("no images selected")
)

// Validation category messages surfaced to the user. These exact strings
// are part of the client contract.
const (
	MsgFileTooLarge = "File exceeds the maximum allowed size"
	MsgFileType     = "File type is not supported"
	MsgTooManyFiles = "Too many files selected"
)
