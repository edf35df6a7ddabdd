// Package editing owns the adjustment and preview state for a single image
// being edited: bounded manual adjustments or a server-defined preset, a
// versioned debounced preview pipeline, and a final commit that produces a
// processed image.
package editing

import "errors"

// Edit session errors.
var (
	ErrInvalidAdjustment = errors.New("adjustment value out of range")
	ErrNoPreset          = errors.New("no preset selected")
	ErrPreviewPending    = errors.New("preview request in progress")
	ErrPreviewFailed     = errors.New("preview failed, retry the preview before committing")
	ErrCommitInProgress  = errors.New("commit already in progress")
	ErrSessionClosed     = errors.New("edit session is closed")
)

// DefaultCommitMessage is surfaced when a commit fails without a server
// provided message.
const DefaultCommitMessage = "Processing failed, please try again"
