package watermark

import "errors"

// Watermark errors.
var (
	ErrInvalidSetting = errors.New("invalid watermark setting")
	ErrBusy           = errors.New("watermark operation in progress")
)
