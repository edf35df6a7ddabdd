// Package watermark owns the account watermark settings: a validated
// client-side model over the remote get/update/delete/upload/preview
// operations, with the same busy-guarded error discipline as other
// mutations.
package watermark

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/photodesk/photodesk/internal/gateway"
)

// Position anchors the watermark within the image.
type Position string

// Position constants.
const (
	TopLeft     Position = "topLeft"
	TopRight    Position = "topRight"
	BottomLeft  Position = "bottomLeft"
	BottomRight Position = "bottomRight"
	Center      Position = "center"
)

// Validate checks if the position is a known anchor.
func (p Position) Validate() error {
	switch p {
	case TopLeft, TopRight, BottomLeft, BottomRight, Center:
		return nil
	default:
		return fmt.Errorf("%w: unknown position %q", ErrInvalidSetting, string(p))
	}
}

// Settings is the client model of the account watermark configuration.
type Settings struct {
	Position  Position
	Opacity   float64
	Size      int
	Padding   int
	AutoApply bool
	LogoURL   string
}

// DefaultSettings returns the settings applied to a fresh account.
func DefaultSettings() Settings {
	return Settings{
		Position: BottomRight,
		Opacity:  0.8,
		Size:     20,
		Padding:  16,
	}
}

// Validate enforces every setting range: opacity in [0.1, 1], size in
// [5, 50], padding in [0, 100].
func (s Settings) Validate() error {
	if err := s.Position.Validate(); err != nil {
		return err
	}
	if s.Opacity < 0.1 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be between 0.1 and 1", ErrInvalidSetting)
	}
	if s.Size < 5 || s.Size > 50 {
		return fmt.Errorf("%w: size must be between 5 and 50", ErrInvalidSetting)
	}
	if s.Padding < 0 || s.Padding > 100 {
		return fmt.Errorf("%w: padding must be between 0 and 100", ErrInvalidSetting)
	}
	return nil
}

func (s Settings) toWire() gateway.WatermarkSettings {
	return gateway.WatermarkSettings{
		Position:  string(s.Position),
		Opacity:   s.Opacity,
		Size:      s.Size,
		Padding:   s.Padding,
		AutoApply: s.AutoApply,
		LogoURL:   s.LogoURL,
	}
}

func fromWire(w gateway.WatermarkSettings) Settings {
	return Settings{
		Position:  Position(w.Position),
		Opacity:   w.Opacity,
		Size:      w.Size,
		Padding:   w.Padding,
		AutoApply: w.AutoApply,
		LogoURL:   w.LogoURL,
	}
}

// System manages the account watermark settings through the gateway.
type System struct {
	gw     gateway.Gateway
	logger *slog.Logger

	mu        sync.Mutex
	busy      bool
	settings  *Settings
	lastError string
}

// NewSystem creates a watermark settings manager.
func NewSystem(gw gateway.Gateway, logger *slog.Logger) *System {
	return &System{
		gw:     gw,
		logger: logger.With("system", "watermark"),
	}
}

// Load fetches the account settings from the remote store.
func (s *System) Load(ctx context.Context) (*Settings, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	wire, err := s.gw.WatermarkSettings(ctx)
	if err != nil {
		s.finish(err.Error())
		return nil, err
	}

	settings := fromWire(*wire)
	s.mu.Lock()
	s.settings = &settings
	s.mu.Unlock()
	s.finish("")
	return &settings, nil
}

// Update validates and replaces the account settings.
func (s *System) Update(ctx context.Context, settings Settings) (*Settings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	wire, err := s.gw.UpdateWatermarkSettings(ctx, settings.toWire())
	if err != nil {
		s.finish(err.Error())
		return nil, err
	}

	updated := fromWire(*wire)
	s.mu.Lock()
	s.settings = &updated
	s.mu.Unlock()
	s.finish("")

	s.logger.Info("watermark settings updated", "position", updated.Position)
	return &updated, nil
}

// Remove deletes the account settings.
func (s *System) Remove(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}

	if err := s.gw.DeleteWatermarkSettings(ctx); err != nil {
		s.finish(err.Error())
		return err
	}

	s.mu.Lock()
	s.settings = nil
	s.mu.Unlock()
	s.finish("")
	return nil
}

// UploadLogo stores a new watermark logo image and returns the updated
// settings.
func (s *System) UploadLogo(ctx context.Context, file gateway.UploadFile) (*Settings, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	wire, err := s.gw.UploadWatermarkLogo(ctx, file)
	if err != nil {
		s.finish(err.Error())
		return nil, err
	}

	updated := fromWire(*wire)
	s.mu.Lock()
	s.settings = &updated
	s.mu.Unlock()
	s.finish("")
	return &updated, nil
}

// Preview renders a watermark preview on the given image and returns the
// preview URL.
func (s *System) Preview(ctx context.Context, imageID string) (string, error) {
	result, err := s.gw.PreviewWatermark(ctx, imageID)
	if err != nil {
		return "", err
	}
	return result.PreviewURL, nil
}

// Settings returns the last loaded settings, or nil.
func (s *System) Settings() *Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Busy reports whether a watermark operation is in flight.
func (s *System) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError returns the advisory error message from the most recent
// operation, or empty.
func (s *System) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *System) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.lastError = ""
	return nil
}

func (s *System) finish(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.lastError = message
}
