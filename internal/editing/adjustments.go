package editing

import (
	"fmt"

	"github.com/photodesk/photodesk/internal/gateway"
)

// OutputFormat is the encoding of a processed image.
type OutputFormat string

// Output format constants.
const (
	FormatJPEG OutputFormat = "jpeg"
	FormatPNG  OutputFormat = "png"
	FormatWebP OutputFormat = "webp"
)

// Validate checks if the output format is supported.
func (f OutputFormat) Validate() error {
	switch f {
	case FormatJPEG, FormatPNG, FormatWebP:
		return nil
	default:
		return fmt.Errorf("%w: format must be jpeg, png, or webp", ErrInvalidAdjustment)
	}
}

// CropRegion is an optional crop rectangle in source pixel coordinates.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks that the region has positive dimensions and a
// non-negative origin.
func (c CropRegion) Validate() error {
	if c.X < 0 || c.Y < 0 {
		return fmt.Errorf("%w: crop origin cannot be negative", ErrInvalidAdjustment)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: crop dimensions must be positive", ErrInvalidAdjustment)
	}
	return nil
}

// Output describes the requested encoding of the processed result.
type Output struct {
	Format  OutputFormat `json:"format"`
	Quality int          `json:"quality"`
}

// AdjustmentVector is the full set of manual per-image tuning parameters.
// All values are validated client-side before any request is issued.
type AdjustmentVector struct {
	Brightness  int         `json:"brightness"`
	Contrast    int         `json:"contrast"`
	Saturation  int         `json:"saturation"`
	Temperature int         `json:"temperature"`
	Sharpness   int         `json:"sharpness"`
	Shadows     int         `json:"shadows"`
	Highlights  int         `json:"highlights"`
	Crop        *CropRegion `json:"crop,omitempty"`
	Output      Output      `json:"output"`
}

// DefaultAdjustments returns the neutral vector applied when a manual edit
// session starts.
func DefaultAdjustments() AdjustmentVector {
	return AdjustmentVector{
		Output: Output{Format: FormatJPEG, Quality: 90},
	}
}

// Validate enforces every parameter range: signed adjustments in
// [-100, 100], sharpness in [0, 100], quality in [10, 100] in steps of 5.
func (a AdjustmentVector) Validate() error {
	signed := map[string]int{
		"brightness":  a.Brightness,
		"contrast":    a.Contrast,
		"saturation":  a.Saturation,
		"temperature": a.Temperature,
		"shadows":     a.Shadows,
		"highlights":  a.Highlights,
	}
	for name, value := range signed {
		if value < -100 || value > 100 {
			return fmt.Errorf("%w: %s must be between -100 and 100", ErrInvalidAdjustment, name)
		}
	}

	if a.Sharpness < 0 || a.Sharpness > 100 {
		return fmt.Errorf("%w: sharpness must be between 0 and 100", ErrInvalidAdjustment)
	}

	if err := a.Output.Format.Validate(); err != nil {
		return err
	}
	if a.Output.Quality < 10 || a.Output.Quality > 100 {
		return fmt.Errorf("%w: quality must be between 10 and 100", ErrInvalidAdjustment)
	}
	if a.Output.Quality%5 != 0 {
		return fmt.Errorf("%w: quality must be a multiple of 5", ErrInvalidAdjustment)
	}

	if a.Crop != nil {
		return a.Crop.Validate()
	}
	return nil
}

// ToWire converts the vector to its wire representation.
func (a AdjustmentVector) ToWire() gateway.Adjustments {
	wire := gateway.Adjustments{
		Brightness:  a.Brightness,
		Contrast:    a.Contrast,
		Saturation:  a.Saturation,
		Temperature: a.Temperature,
		Sharpness:   a.Sharpness,
		Shadows:     a.Shadows,
		Highlights:  a.Highlights,
		Format:      string(a.Output.Format),
		Quality:     a.Output.Quality,
	}
	if a.Crop != nil {
		wire.Crop = &gateway.CropRegion{
			X:      a.Crop.X,
			Y:      a.Crop.Y,
			Width:  a.Crop.Width,
			Height: a.Crop.Height,
		}
	}
	return wire
}
