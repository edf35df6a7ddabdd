package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/photodesk/photodesk/internal/collection"
	"github.com/photodesk/photodesk/internal/gateway"
)

// Coordinator executes remote mutations against the image store. It runs a
// single mutation at a time: re-entrant invocations while busy are rejected
// with ErrBusy, never queued. Mutations that change the collection contents
// trigger a store refresh only when they fully succeed.
type Coordinator struct {
	gw        gateway.Gateway
	store     *collection.Store
	selection *collection.SelectionSet
	logger    *slog.Logger
	cfg       Config

	mu        sync.Mutex
	busy      bool
	lastError string
}

// NewCoordinator creates a mutation coordinator bound to the given store
// and selection.
func NewCoordinator(
	gw gateway.Gateway,
	store *collection.Store,
	selection *collection.SelectionSet,
	logger *slog.Logger,
	cfg Config,
) *Coordinator {
	return &Coordinator{
		gw:        gw,
		store:     store,
		selection: selection,
		logger:    logger.With("system", "mutation"),
		cfg:       cfg,
	}
}

// Busy reports whether a mutation is currently in flight.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// LastError returns the advisory error message from the most recent
// mutation, or empty when it succeeded.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// UploadOptions carries optional metadata attached to uploaded files.
type UploadOptions struct {
	ProjectID string
	Tags      []string
}

// FileIssue describes one rejected file and the validation category message.
type FileIssue struct {
	Name    string
	Message string
}

// UploadOutcome reports the result of an upload: the created images and any
// files rejected before the request was issued.
type UploadOutcome struct {
	Uploaded []collection.Image
	Rejected []FileIssue
}

// Upload validates the given files locally and uploads the accepted ones.
// Oversized or disallowed files are rejected pre-flight with their category
// message; the remaining files still proceed. When no file survives
// validation the call fails with ErrValidation and never reaches the remote
// store. A successful upload refreshes the collection.
func (c *Coordinator) Upload(ctx context.Context, files []gateway.UploadFile, opts UploadOptions) (*UploadOutcome, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > c.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: %s", ErrValidation, MsgTooManyFiles)
	}

	outcome := &UploadOutcome{}
	accepted := make([]gateway.UploadFile, 0, len(files))
	for _, file := range files {
		switch {
		case int64(len(file.Data)) > c.cfg.MaxFileSizeBytes():
			outcome.Rejected = append(outcome.Rejected, FileIssue{Name: file.Name, Message: MsgFileTooLarge})
		case !c.cfg.AllowsType(file.ContentType):
			outcome.Rejected = append(outcome.Rejected, FileIssue{Name: file.Name, Message: MsgFileType})
		default:
			accepted = append(accepted, file)
		}
	}

	if len(accepted) == 0 {
		return outcome, fmt.Errorf("%w: %s", ErrValidation, outcome.Rejected[0].Message)
	}

	if err := c.begin(); err != nil {
		return outcome, err
	}

	result, err := c.gw.Upload(ctx, gateway.UploadRequest{
		Files:     accepted,
		ProjectID: opts.ProjectID,
		Tags:      opts.Tags,
	})
	if err != nil {
		c.finish(err.Error())
		return outcome, err
	}

	outcome.Uploaded = collection.FromRecords(result.UploadedImages)
	c.finish("")

	c.logger.Info("upload complete", "accepted", len(accepted), "rejected", len(outcome.Rejected))
	c.refresh(ctx)
	return outcome, nil
}

// BatchDelete issues one delete per id concurrently and waits for all of
// them to settle. When every delete succeeds the deleted ids are removed
// from the selection and the collection is refreshed. When any fail, the
// operation reports failure naming the failure count and the collection is
// left as-is until the next refresh.
func (c *Coordinator) BatchDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return ErrNoSelection
	}
	if err := c.begin(); err != nil {
		return err
	}

	results := make([]error, len(ids))
	pool := pond.NewPool(c.cfg.BatchWorkers, pond.WithContext(ctx))
	for i, id := range ids {
		pool.Submit(func() {
			results[i] = c.gw.Delete(ctx, id)
		})
	}
	_ = pool.Stop().Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			failures++
		}
	}

	if failures > 0 {
		msg := fmt.Sprintf("Failed to delete %d images", failures)
		c.finish(msg)

		c.logger.Warn("batch delete partially failed", "total", len(ids), "failed", failures)
		return fmt.Errorf("%w: %s", ErrPartialFailure, msg)
	}

	c.selection.Remove(ids)
	c.finish("")

	c.logger.Info("batch delete complete", "count", len(ids))
	c.refresh(ctx)
	return nil
}

// BatchProcess processes the given images with a shared mode and options,
// refreshing the collection on success.
func (c *Coordinator) BatchProcess(ctx context.Context, ids []string, mode string, options map[string]any) error {
	if len(ids) == 0 {
		return ErrNoSelection
	}
	if mode != "auto" && mode != "manual" {
		return fmt.Errorf("%w: unknown processing mode %q", ErrValidation, mode)
	}
	if err := c.begin(); err != nil {
		return err
	}

	result, err := c.gw.BatchProcess(ctx, gateway.BatchProcessRequest{
		ImageIDs: ids,
		Mode:     mode,
		Options:  options,
	})
	if err != nil {
		c.finish(err.Error())
		return err
	}

	failures := 0
	for _, item := range result.Results {
		if !item.Success {
			failures++
		}
	}
	if failures > 0 {
		msg := fmt.Sprintf("Failed to process %d images", failures)
		c.finish(msg)
		return fmt.Errorf("%w: %s", ErrPartialFailure, msg)
	}

	c.finish("")

	c.logger.Info("batch process complete", "count", len(ids), "mode", mode)
	c.refresh(ctx)
	return nil
}

func (c *Coordinator) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	c.busy = true
	c.lastError = ""
	return nil
}

func (c *Coordinator) finish(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.lastError = message
}

func (c *Coordinator) refresh(ctx context.Context) {
	if err := c.store.Fetch(ctx); err != nil {
		c.logger.Warn("post-mutation refresh failed", "error", err)
	}
}
