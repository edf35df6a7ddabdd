package sharing

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/photodesk/photodesk/internal/gateway"
)

// Settings holds the user-facing share controls. Disabled optional controls
// keep their stored numeric values but are omitted from the outgoing
// request entirely.
type Settings struct {
	Title               string
	Description         string
	IsExpirationEnabled bool
	ExpirationDays      int
	IsPasswordProtected bool
	Password            string
	IsMaxAccessEnabled  bool
	MaxAccess           int
}

// Validate checks the settings before a request is built.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrMissingTitle
	}
	if s.IsPasswordProtected && s.Password == "" {
		return ErrEmptyPassword
	}
	if s.IsMaxAccessEnabled && s.MaxAccess < 1 {
		return ErrInvalidMaxAccess
	}
	return nil
}

// ToRequest builds the wire request for the given image ids. Password is
// included only when protection is enabled with a non-empty password,
// max-access only when enabled with a positive value, and expiration only
// when enabled (0 means never expires).
func (s Settings) ToRequest(ids []string) gateway.ShareRequest {
	req := gateway.ShareRequest{
		ImageIDs:    ids,
		Title:       s.Title,
		Description: s.Description,
	}

	if s.IsExpirationEnabled {
		days := s.ExpirationDays
		req.ExpirationDays = &days
	}
	if s.IsPasswordProtected && s.Password != "" {
		password := s.Password
		req.Password = &password
	}
	if s.IsMaxAccessEnabled && s.MaxAccess > 0 {
		maxAccess := s.MaxAccess
		req.MaxAccess = &maxAccess
	}
	return req
}

// Result is the created share descriptor: token, a fully qualified URL
// built from the application origin, and the settings used to create it.
type Result struct {
	Token    string
	URL      string
	Settings Settings
}

// Session drives one share dialog invocation. Creating a share captures the
// selection ids at call time, never a live reference. Once a result is
// present, recreating requires an explicit Reset first.
type Session struct {
	gw     gateway.Gateway
	logger *slog.Logger
	origin string

	mu        sync.Mutex
	busy      bool
	result    *Result
	lastError string
}

// NewSession creates a share session building URLs against cfg.Origin.
func NewSession(gw gateway.Gateway, logger *slog.Logger, cfg Config) *Session {
	return &Session{
		gw:     gw,
		logger: logger.With("system", "sharing"),
		origin: strings.TrimRight(cfg.Origin, "/"),
	}
}

// Create validates the settings, snapshots the given ids, and issues the
// share-creation call. On success the result is stored; on failure the
// error message is recorded and any prior result is left untouched.
func (s *Session) Create(ctx context.Context, ids []string, settings Settings) (*Result, error) {
	if len(ids) == 0 {
		return nil, ErrNoImages
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.result != nil {
		s.mu.Unlock()
		return nil, ErrShareExists
	}
	s.busy = true
	s.lastError = ""
	s.mu.Unlock()

	snapshot := append([]string(nil), ids...)
	share, err := s.gw.CreateShare(ctx, settings.ToRequest(snapshot))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.lastError = err.Error()
		return nil, err
	}

	s.result = &Result{
		Token:    share.ShareToken,
		URL:      s.origin + "/share/" + share.ShareToken,
		Settings: settings,
	}

	s.logger.Info("share created", "token", share.ShareToken, "images", len(snapshot))
	return s.result, nil
}

// Reset discards the current result so a new share can be created. This is
// always an explicit user action, never implicit.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.lastError = ""
}

// Result returns the created share descriptor, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Busy reports whether a share creation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError returns the advisory error message from the most recent
// creation attempt, or empty.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// List returns the caller's existing shares.
func (s *Session) List(ctx context.Context) ([]gateway.Share, error) {
	return s.gw.ListShares(ctx)
}

// Revoke deletes an existing share.
func (s *Session) Revoke(ctx context.Context, shareID string) error {
	return s.gw.DeleteShare(ctx, shareID)
}
