package collection

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/photodesk/photodesk/internal/gateway"
	"github.com/photodesk/photodesk/pkg/latest"
	"github.com/photodesk/photodesk/pkg/pagination"
)

// Snapshotter persists fetched collection pages so the last-known view can
// be restored before the first fetch of a session completes.
type Snapshotter interface {
	Save(ctx context.Context, key string, snap Snapshot) error
	Load(ctx context.Context, key string) (*Snapshot, error)
}

// RefreshHook is invoked after every successful fetch with the new image
// list. Hooks run outside the store lock.
type RefreshHook func(images []Image)

// Store owns the cached collection view: image list, tag universe, filter,
// and pagination state. Overlapping fetches may race freely; responses are
// applied in issuance order, so the displayed state always reflects the
// most recently issued fetch. A failed fetch leaves the previous collection
// intact and records an advisory error message.
type Store struct {
	gw         gateway.Gateway
	logger     *slog.Logger
	pagination pagination.Config
	snapshots  Snapshotter

	gate latest.Gate

	mu        sync.Mutex
	filter    FilterCriteria
	page      PageState
	images    []Image
	tags      []string
	lastError string
	hooks     []RefreshHook
}

// NewStore creates a collection store. snapshots may be nil to disable
// persistence of fetched pages.
func NewStore(gw gateway.Gateway, logger *slog.Logger, cfg pagination.Config, snapshots Snapshotter) *Store {
	req := pagination.PageRequest{Page: 1}
	req.Normalize(cfg)

	return &Store{
		gw:         gw,
		logger:     logger.With("system", "collection"),
		pagination: cfg,
		snapshots:  snapshots,
		filter:     DefaultFilter(),
		page: PageState{
			Page:     req.Page,
			PageSize: req.PageSize,
			Pages:    1,
		},
		images: []Image{},
		tags:   []string{},
	}
}

// OnRefresh registers a hook invoked after every successful fetch. The app
// wires selection pruning here; the store itself never touches the selection.
func (s *Store) OnRefresh(hook RefreshHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Fetch queries the collection with the current filter and page. A response
// belonging to a superseded fetch is discarded silently; it never alters
// collection, loading, or error state.
func (s *Store) Fetch(ctx context.Context) error {
	// The sequence number is taken under the same lock as the filter and
	// page capture, so issuance order always matches the order the fetch
	// states were observed in.
	s.mu.Lock()
	filter := s.filter
	page := s.page.Page
	size := s.page.PageSize
	seq := s.gate.Issue()
	s.mu.Unlock()

	result, err := s.gw.QueryCollection(ctx, filter.ToQuery(page, size))

	if !s.gate.Admit(seq) {
		s.logger.Debug("discarded stale collection response", "seq", seq)
		return nil
	}

	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()

		s.logger.Warn("collection fetch failed", "seq", seq, "error", err)
		return err
	}

	tags := result.Tags
	if tags == nil {
		tags = []string{}
	}

	// The wire pagination block may omit the page count; derive it from
	// the total when absent.
	pr := pagination.NewPageResult(FromRecords(result.Images), result.Pagination.Total, page, size)
	images := pr.Data
	state := PageState{
		Page:     pr.Page,
		PageSize: pr.PageSize,
		Total:    pr.Total,
		Pages:    result.Pagination.Pages,
	}
	if state.Pages < 1 {
		state.Pages = pr.TotalPages
	}

	s.mu.Lock()
	s.images = images
	s.tags = tags
	s.page = state
	s.lastError = ""
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(images)
	}

	s.persist(ctx, filter, Snapshot{
		Images:  images,
		Tags:    tags,
		Page:    state,
		SavedAt: time.Now().UTC(),
	})

	return nil
}

// SetFilter merges the patch into the filter criteria, resets pagination to
// page 1, and fetches.
func (s *Store) SetFilter(ctx context.Context, patch FilterPatch) error {
	s.mu.Lock()
	s.filter = s.filter.Apply(patch)
	s.page.Page = 1
	s.mu.Unlock()

	return s.Fetch(ctx)
}

// SetPage moves to page n, bounded to [1, Pages], and fetches.
func (s *Store) SetPage(ctx context.Context, n int) error {
	s.mu.Lock()
	if n < 1 {
		n = 1
	}
	if n > s.page.Pages {
		n = s.page.Pages
	}
	s.page.Page = n
	s.mu.Unlock()

	return s.Fetch(ctx)
}

// Hydrate restores the last persisted snapshot for the current filter. It
// only applies when no fetch has been issued yet, so a live response can
// never be clobbered by stale persisted state. It reports whether a
// snapshot was applied.
func (s *Store) Hydrate(ctx context.Context) bool {
	if s.snapshots == nil || s.gate.Latest() > 0 {
		return false
	}

	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	snap, err := s.snapshots.Load(ctx, filter.Digest())
	if err != nil || snap == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate.Latest() > 0 {
		return false
	}
	s.images = snap.Images
	s.tags = snap.Tags
	s.page = snap.Page

	s.logger.Debug("hydrated collection from snapshot", "saved_at", snap.SavedAt)
	return true
}

// Images returns a copy of the current image list.
func (s *Store) Images() []Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.images)
}

// ImageIDs returns the ids of the current image list in display order.
func (s *Store) ImageIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.images))
	for _, img := range s.images {
		ids = append(ids, img.ID)
	}
	return ids
}

// Tags returns a copy of the tag universe from the last successful fetch.
func (s *Store) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tags)
}

// Filter returns the current filter criteria.
func (s *Store) Filter() FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// PageState returns the pagination state from the last successful fetch.
func (s *Store) PageState() PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Loading reports whether a fetch is in flight whose response has not yet
// been applied. Superseded fetches stop counting once the latest response
// lands.
func (s *Store) Loading() bool {
	return s.gate.Pending()
}

// LastError returns the advisory error message from the most recent applied
// fetch, or empty after a success.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Store) persist(ctx context.Context, filter FilterCriteria, snap Snapshot) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, filter.Digest(), snap); err != nil {
		s.logger.Warn("snapshot save failed", "error", err)
	}
}
