package editing

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/photodesk/photodesk/internal/gateway"
)

// Mode selects between server-defined preset processing and explicit
// manual adjustments.
type Mode string

// Edit mode constants.
const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// PreviewState is the preview half of the session state machine.
type PreviewState string

// Preview state constants.
const (
	PreviewIdle    PreviewState = "idle"
	PreviewPending PreviewState = "pending"
	PreviewReady   PreviewState = "ready"
	PreviewFailed  PreviewState = "failed"
)

// CommitState is the commit half of the session state machine, orthogonal
// to the preview state.
type CommitState string

// Commit state constants.
const (
	CommitIdle   CommitState = "idle"
	Committing   CommitState = "committing"
	Committed    CommitState = "committed"
	CommitFailed CommitState = "failed"
)

// RefreshFunc is invoked after a successful commit so the committed result
// appears in the owning collection.
type RefreshFunc func(ctx context.Context)

// Session holds the edit state for one image. Continuous input stages
// values locally; Settle issues exactly one preview request carrying the
// staged state and a freshly incremented version. A preview response is
// applied only when its version is still the latest issued; superseded
// responses are discarded silently. Each applied preview carries a
// monotonically increasing display key forcing consumers to reload the
// artifact rather than reuse a cached bitmap.
type Session struct {
	gw      gateway.Gateway
	logger  *slog.Logger
	refresh RefreshFunc
	imageID string

	mu           sync.Mutex
	mode         Mode
	preset       string
	staged       AdjustmentVector
	previewState PreviewState
	commitState  CommitState
	version      uint64
	previewURL   string
	displayKey   uint64
	lastError    string
	closed       bool
}

// NewSession starts an edit session for the given image in manual mode with
// neutral adjustments. refresh may be nil when no collection refresh is
// wanted on commit.
func NewSession(gw gateway.Gateway, logger *slog.Logger, imageID string, refresh RefreshFunc) *Session {
	return &Session{
		gw:           gw,
		logger:       logger.With("system", "editing", "image_id", imageID),
		refresh:      refresh,
		imageID:      imageID,
		mode:         ModeManual,
		staged:       DefaultAdjustments(),
		previewState: PreviewIdle,
		commitState:  CommitIdle,
	}
}

// SelectPreset switches the session to auto mode with the given preset and
// immediately issues a preview request. Preset selection is a discrete
// action, so it settles without staging.
func (s *Session) SelectPreset(ctx context.Context, preset string) error {
	if preset == "" {
		return ErrNoPreset
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mode = ModeAuto
	s.preset = preset
	s.mu.Unlock()

	return s.issuePreview(ctx)
}

// Stage records new manual adjustment values without issuing a preview
// request. Intended for continuous input: the staged values drive local
// display only until Settle is called.
func (s *Session) Stage(vec AdjustmentVector) error {
	if err := vec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.mode = ModeManual
	s.staged = vec
	return nil
}

// Settle signals that continuous input has ended and issues exactly one
// preview request carrying the staged state.
func (s *Session) Settle(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	return s.issuePreview(ctx)
}

// issuePreview increments the version counter, moves to PreviewPending, and
// performs the preview call for the current mode. The response is applied
// only when its version is still the latest issued.
func (s *Session) issuePreview(ctx context.Context) error {
	s.mu.Lock()
	s.version++
	version := s.version
	s.previewState = PreviewPending
	mode := s.mode
	preset := s.preset
	staged := s.staged
	s.mu.Unlock()

	var result *gateway.ProcessResult
	var err error
	if mode == ModeAuto {
		result, err = s.gw.AutoProcess(ctx, gateway.AutoProcessRequest{
			ImageID: s.imageID,
			Preset:  preset,
			Preview: true,
		})
	} else {
		result, err = s.gw.ManualProcess(ctx, gateway.ManualProcessRequest{
			ImageID:     s.imageID,
			Adjustments: staged.ToWire(),
			Preview:     true,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.version {
		s.logger.Debug("discarded superseded preview response", "version", version, "latest", s.version)
		return nil
	}

	if err != nil {
		s.previewState = PreviewFailed
		s.lastError = err.Error()
		return err
	}

	s.previewState = PreviewReady
	s.previewURL = result.PreviewURL
	s.displayKey++
	s.lastError = ""
	return nil
}

// Commit issues the final processing call for the current mode. It is
// reachable only from PreviewReady or from an idle session that never
// previewed; a pending or failed preview blocks it until a preview
// succeeds. On failure the adjustment state is preserved so the commit can
// be retried.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.commitState == Committing {
		s.mu.Unlock()
		return ErrCommitInProgress
	}
	if s.previewState == PreviewPending {
		s.mu.Unlock()
		return ErrPreviewPending
	}
	if s.previewState == PreviewFailed {
		s.mu.Unlock()
		return ErrPreviewFailed
	}
	s.commitState = Committing
	mode := s.mode
	preset := s.preset
	staged := s.staged
	s.mu.Unlock()

	var err error
	if mode == ModeAuto {
		_, err = s.gw.AutoProcess(ctx, gateway.AutoProcessRequest{
			ImageID: s.imageID,
			Preset:  preset,
			Preview: false,
		})
	} else {
		_, err = s.gw.ManualProcess(ctx, gateway.ManualProcessRequest{
			ImageID:     s.imageID,
			Adjustments: staged.ToWire(),
			Preview:     false,
		})
	}

	s.mu.Lock()
	if err != nil {
		s.commitState = CommitFailed
		s.lastError = commitMessage(err)
		s.mu.Unlock()
		return err
	}
	s.commitState = Committed
	s.lastError = ""
	refresh := s.refresh
	s.mu.Unlock()

	s.logger.Info("edit committed", "mode", mode)
	if refresh != nil {
		refresh(ctx)
	}
	return nil
}

// Close ends the session. Further mutations are rejected; late preview
// responses are already version-gated.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// ImageID returns the id of the image being edited.
func (s *Session) ImageID() string { return s.imageID }

// Mode returns the current edit mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Preset returns the selected preset, empty in manual mode.
func (s *Session) Preset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preset
}

// Adjustments returns the staged adjustment vector.
func (s *Session) Adjustments() AdjustmentVector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// PreviewState returns the preview half of the state machine.
func (s *Session) PreviewState() PreviewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewState
}

// CommitState returns the commit half of the state machine.
func (s *Session) CommitState() CommitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitState
}

// Preview returns the latest applied preview URL together with its display
// key. The key increases with every applied preview so consumers reload the
// artifact even when the URL is unchanged.
func (s *Session) Preview() (url string, displayKey uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewURL, s.displayKey
}

// Version returns the latest issued preview version.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// LastError returns the advisory error message from the most recent applied
// preview or commit, or empty.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// commitMessage extracts the server message from a remote failure, falling
// back to the default commit message for transport and decode errors.
func commitMessage(err error) string {
	if errors.Is(err, gateway.ErrRemoteFailure) {
		return err.Error()
	}
	return DefaultCommitMessage
}
