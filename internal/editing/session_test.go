package editing_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/photodesk/photodesk/internal/editing"
	"github.com/photodesk/photodesk/internal/gateway"
	"github.com/photodesk/photodesk/internal/gateway/gatewaytest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stagedWith(brightness int) editing.AdjustmentVector {
	v := editing.DefaultAdjustments()
	v.Brightness = brightness
	return v
}

func TestSession_CoalescingIssuesOneRequest(t *testing.T) {
	var requests []gateway.ManualProcessRequest
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			requests = append(requests, req)
			return &gateway.ProcessResult{PreviewURL: "preview-1"}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	// Dragging a slider: three staged values, one settle.
	for _, b := range []int{20, 40, 60} {
		if err := session.Stage(stagedWith(b)); err != nil {
			t.Fatal(err)
		}
	}
	if len(requests) != 0 {
		t.Fatalf("requests during staging = %d, want 0", len(requests))
	}

	if err := session.Settle(context.Background()); err != nil {
		t.Fatalf("Settle() error = %v, want nil", err)
	}

	if len(requests) != 1 {
		t.Fatalf("requests after settle = %d, want exactly 1", len(requests))
	}
	if requests[0].Adjustments.Brightness != 60 {
		t.Errorf("settled brightness = %d, want 60", requests[0].Adjustments.Brightness)
	}
	if !requests[0].Preview {
		t.Error("settled request preview = false, want true")
	}
	if session.PreviewState() != editing.PreviewReady {
		t.Errorf("PreviewState() = %s, want ready", session.PreviewState())
	}
}

// Preview V1 superseded by V2 before V1's response arrives: applying V1's
// late response must not change the displayed preview.
func TestSession_SupersededPreviewDiscarded(t *testing.T) {
	calls := make(chan chan string)
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			reply := make(chan string)
			calls <- reply
			return &gateway.ProcessResult{PreviewURL: <-reply}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		session.Stage(stagedWith(10))
		session.Settle(context.Background())
	}()
	replyV1 := <-calls

	go func() {
		defer wg.Done()
		session.Stage(stagedWith(90))
		session.Settle(context.Background())
	}()
	replyV2 := <-calls

	// V2's response lands first and becomes the displayed preview.
	replyV2 <- "preview-v2"
	// V1's response arrives late and must be discarded.
	replyV1 <- "preview-v1"
	wg.Wait()

	url, key := session.Preview()
	if url != "preview-v2" {
		t.Errorf("Preview() url = %q, want preview-v2", url)
	}
	if key != 1 {
		t.Errorf("display key = %d, want 1 (stale response never applied)", key)
	}
	if session.PreviewState() != editing.PreviewReady {
		t.Errorf("PreviewState() = %s, want ready", session.PreviewState())
	}
	if session.LastError() != "" {
		t.Errorf("LastError() = %q, want empty", session.LastError())
	}
}

func TestSession_DisplayKeyIncreasesPerAppliedPreview(t *testing.T) {
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			// Same URL every time: the display key alone forces a reload.
			return &gateway.ProcessResult{PreviewURL: "preview"}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	for i := 1; i <= 3; i++ {
		if err := session.Settle(context.Background()); err != nil {
			t.Fatal(err)
		}
		if _, key := session.Preview(); key != uint64(i) {
			t.Errorf("display key after settle %d = %d, want %d", i, key, i)
		}
	}
}

func TestSession_SelectPresetIssuesAutoPreview(t *testing.T) {
	var requests []gateway.AutoProcessRequest
	fake := &gatewaytest.Fake{
		AutoProcessFunc: func(ctx context.Context, req gateway.AutoProcessRequest) (*gateway.ProcessResult, error) {
			requests = append(requests, req)
			return &gateway.ProcessResult{PreviewURL: "auto-preview"}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	if err := session.SelectPreset(context.Background(), "twilight"); err != nil {
		t.Fatalf("SelectPreset() error = %v, want nil", err)
	}

	if session.Mode() != editing.ModeAuto {
		t.Errorf("Mode() = %s, want auto", session.Mode())
	}
	if len(requests) != 1 || requests[0].Preset != "twilight" || !requests[0].Preview {
		t.Errorf("requests = %+v, want one preview request for twilight", requests)
	}

	if err := session.SelectPreset(context.Background(), ""); !errors.Is(err, editing.ErrNoPreset) {
		t.Errorf("SelectPreset(empty) error = %v, want ErrNoPreset", err)
	}
}

func TestSession_StageValidates(t *testing.T) {
	session := editing.NewSession(&gatewaytest.Fake{}, testLogger(), "img-1", nil)

	bad := editing.DefaultAdjustments()
	bad.Brightness = 500
	if err := session.Stage(bad); !errors.Is(err, editing.ErrInvalidAdjustment) {
		t.Errorf("Stage() error = %v, want ErrInvalidAdjustment", err)
	}
	if session.Adjustments().Brightness != 0 {
		t.Error("invalid vector was staged")
	}
}

func TestSession_CommitWithoutPreview(t *testing.T) {
	var refreshed atomic.Int32
	var committed []gateway.ManualProcessRequest
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			committed = append(committed, req)
			return &gateway.ProcessResult{ProcessedImage: &gateway.ImageRecord{ID: "img-1"}}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", func(ctx context.Context) {
		refreshed.Add(1)
	})

	if err := session.Stage(stagedWith(15)); err != nil {
		t.Fatal(err)
	}
	if err := session.Commit(context.Background()); err != nil {
		t.Fatalf("Commit() error = %v, want nil", err)
	}

	if session.CommitState() != editing.Committed {
		t.Errorf("CommitState() = %s, want committed", session.CommitState())
	}
	if len(committed) != 1 || committed[0].Preview {
		t.Errorf("commit requests = %+v, want one with preview=false", committed)
	}
	if committed[0].Adjustments.Brightness != 15 {
		t.Errorf("committed brightness = %d, want 15", committed[0].Adjustments.Brightness)
	}
	if refreshed.Load() != 1 {
		t.Errorf("collection refreshes = %d, want 1", refreshed.Load())
	}
}

func TestSession_CommitFailurePreservesState(t *testing.T) {
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			if req.Preview {
				return &gateway.ProcessResult{PreviewURL: "preview"}, nil
			}
			return nil, fmt.Errorf("%w: export quota exceeded", gateway.ErrRemoteFailure)
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	if err := session.Stage(stagedWith(30)); err != nil {
		t.Fatal(err)
	}
	if err := session.Settle(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := session.Commit(context.Background()); err == nil {
		t.Fatal("Commit() error = nil, want error")
	}

	if session.CommitState() != editing.CommitFailed {
		t.Errorf("CommitState() = %s, want failed", session.CommitState())
	}
	if session.LastError() == "" {
		t.Error("LastError() = empty after failed commit, want message")
	}
	if session.Adjustments().Brightness != 30 {
		t.Error("adjustment state lost after failed commit, want preserved for retry")
	}

	// Retry succeeds once the remote accepts.
	fake.ManualProcessFunc = func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
		return &gateway.ProcessResult{ProcessedImage: &gateway.ImageRecord{ID: "img-1"}}, nil
	}
	if err := session.Commit(context.Background()); err != nil {
		t.Fatalf("retry Commit() error = %v, want nil", err)
	}
	if session.CommitState() != editing.Committed {
		t.Errorf("CommitState() = %s after retry, want committed", session.CommitState())
	}
}

func TestSession_CommitFailureDefaultMessage(t *testing.T) {
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			return nil, gateway.ErrTransport
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	if err := session.Commit(context.Background()); err == nil {
		t.Fatal("Commit() error = nil, want error")
	}
	if session.LastError() != editing.DefaultCommitMessage {
		t.Errorf("LastError() = %q, want default commit message", session.LastError())
	}
}

func TestSession_CommitBlockedAfterFailedPreview(t *testing.T) {
	var fail bool
	var committed int
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			if fail {
				return nil, gateway.ErrTransport
			}
			if !req.Preview {
				committed++
			}
			return &gateway.ProcessResult{PreviewURL: "preview"}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	fail = true
	if err := session.Settle(context.Background()); err == nil {
		t.Fatal("Settle() error = nil, want preview failure")
	}
	if session.PreviewState() != editing.PreviewFailed {
		t.Fatalf("PreviewState() = %s, want failed", session.PreviewState())
	}

	if err := session.Commit(context.Background()); !errors.Is(err, editing.ErrPreviewFailed) {
		t.Errorf("Commit() after failed preview error = %v, want ErrPreviewFailed", err)
	}
	if session.CommitState() != editing.CommitIdle {
		t.Errorf("CommitState() = %s, want idle (commit never started)", session.CommitState())
	}
	if committed != 0 {
		t.Error("a commit request reached the gateway from a failed preview")
	}

	// A successful preview reopens the commit path.
	fail = false
	if err := session.Settle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := session.Commit(context.Background()); err != nil {
		t.Fatalf("Commit() after recovered preview error = %v, want nil", err)
	}
}

func TestSession_CommitBlockedWhilePreviewPending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &gatewaytest.Fake{
		ManualProcessFunc: func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
			close(started)
			<-release
			return &gateway.ProcessResult{PreviewURL: "preview"}, nil
		},
	}
	session := editing.NewSession(fake, testLogger(), "img-1", nil)

	done := make(chan error, 1)
	go func() { done <- session.Settle(context.Background()) }()
	<-started

	if err := session.Commit(context.Background()); !errors.Is(err, editing.ErrPreviewPending) {
		t.Errorf("Commit() during pending preview error = %v, want ErrPreviewPending", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestSession_ClosedRejectsMutations(t *testing.T) {
	session := editing.NewSession(&gatewaytest.Fake{}, testLogger(), "img-1", nil)
	session.Close()

	if err := session.Stage(stagedWith(5)); !errors.Is(err, editing.ErrSessionClosed) {
		t.Errorf("Stage() error = %v, want ErrSessionClosed", err)
	}
	if err := session.Settle(context.Background()); !errors.Is(err, editing.ErrSessionClosed) {
		t.Errorf("Settle() error = %v, want ErrSessionClosed", err)
	}
	if err := session.Commit(context.Background()); !errors.Is(err, editing.ErrSessionClosed) {
		t.Errorf("Commit() error = %v, want ErrSessionClosed", err)
	}
}
