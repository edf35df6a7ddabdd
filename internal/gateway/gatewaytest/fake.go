// Package gatewaytest provides a configurable in-memory Gateway for tests.
// Unset operations fail with an explicit error so tests only exercise the
// calls they configure.
package gatewaytest

import (
	"context"
	"errors"

	"github.com/photodesk/photodesk/internal/gateway"
)

// ErrNotConfigured is returned by any operation without a configured func.
var ErrNotConfigured = errors.New("gatewaytest: operation not configured")

// Fake implements gateway.Gateway via per-operation function fields.
type Fake struct {
	QueryCollectionFunc func(ctx context.Context, query gateway.CollectionQuery) (*gateway.CollectionResult, error)
	UploadFunc          func(ctx context.Context, req gateway.UploadRequest) (*gateway.UploadResult, error)
	AutoProcessFunc     func(ctx context.Context, req gateway.AutoProcessRequest) (*gateway.ProcessResult, error)
	ManualProcessFunc   func(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error)
	BatchProcessFunc    func(ctx context.Context, req gateway.BatchProcessRequest) (*gateway.BatchProcessResult, error)
	DeleteFunc          func(ctx context.Context, imageID string) error
	DownloadFunc        func(ctx context.Context, req gateway.DownloadRequest) (*gateway.DownloadResult, error)
	BatchDownloadFunc   func(ctx context.Context, req gateway.BatchDownloadRequest) (*gateway.DownloadResult, error)
	CreateShareFunc     func(ctx context.Context, req gateway.ShareRequest) (*gateway.Share, error)
	ListSharesFunc      func(ctx context.Context) ([]gateway.Share, error)
	DeleteShareFunc     func(ctx context.Context, shareID string) error

	WatermarkSettingsFunc       func(ctx context.Context) (*gateway.WatermarkSettings, error)
	UpdateWatermarkSettingsFunc func(ctx context.Context, settings gateway.WatermarkSettings) (*gateway.WatermarkSettings, error)
	DeleteWatermarkSettingsFunc func(ctx context.Context) error
	UploadWatermarkLogoFunc     func(ctx context.Context, file gateway.UploadFile) (*gateway.WatermarkSettings, error)
	PreviewWatermarkFunc        func(ctx context.Context, imageID string) (*gateway.ProcessResult, error)
}

var _ gateway.Gateway = (*Fake)(nil)

func (f *Fake) QueryCollection(ctx context.Context, query gateway.CollectionQuery) (*gateway.CollectionResult, error) {
	if f.QueryCollectionFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.QueryCollectionFunc(ctx, query)
}

func (f *Fake) Upload(ctx context.Context, req gateway.UploadRequest) (*gateway.UploadResult, error) {
	if f.UploadFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.UploadFunc(ctx, req)
}

func (f *Fake) AutoProcess(ctx context.Context, req gateway.AutoProcessRequest) (*gateway.ProcessResult, error) {
	if f.AutoProcessFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.AutoProcessFunc(ctx, req)
}

func (f *Fake) ManualProcess(ctx context.Context, req gateway.ManualProcessRequest) (*gateway.ProcessResult, error) {
	if f.ManualProcessFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.ManualProcessFunc(ctx, req)
}

func (f *Fake) BatchProcess(ctx context.Context, req gateway.BatchProcessRequest) (*gateway.BatchProcessResult, error) {
	if f.BatchProcessFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.BatchProcessFunc(ctx, req)
}

func (f *Fake) Delete(ctx context.Context, imageID string) error {
	if f.DeleteFunc == nil {
		return ErrNotConfigured
	}
	return f.DeleteFunc(ctx, imageID)
}

func (f *Fake) Download(ctx context.Context, req gateway.DownloadRequest) (*gateway.DownloadResult, error) {
	if f.DownloadFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.DownloadFunc(ctx, req)
}

func (f *Fake) BatchDownload(ctx context.Context, req gateway.BatchDownloadRequest) (*gateway.DownloadResult, error) {
	if f.BatchDownloadFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.BatchDownloadFunc(ctx, req)
}

func (f *Fake) CreateShare(ctx context.Context, req gateway.ShareRequest) (*gateway.Share, error) {
	if f.CreateShareFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.CreateShareFunc(ctx, req)
}

func (f *Fake) ListShares(ctx context.Context) ([]gateway.Share, error) {
	if f.ListSharesFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.ListSharesFunc(ctx)
}

func (f *Fake) DeleteShare(ctx context.Context, shareID string) error {
	if f.DeleteShareFunc == nil {
		return ErrNotConfigured
	}
	return f.DeleteShareFunc(ctx, shareID)
}

func (f *Fake) WatermarkSettings(ctx context.Context) (*gateway.WatermarkSettings, error) {
	if f.WatermarkSettingsFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.WatermarkSettingsFunc(ctx)
}

func (f *Fake) UpdateWatermarkSettings(ctx context.Context, settings gateway.WatermarkSettings) (*gateway.WatermarkSettings, error) {
	if f.UpdateWatermarkSettingsFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.UpdateWatermarkSettingsFunc(ctx, settings)
}

func (f *Fake) DeleteWatermarkSettings(ctx context.Context) error {
	if f.DeleteWatermarkSettingsFunc == nil {
		return ErrNotConfigured
	}
	return f.DeleteWatermarkSettingsFunc(ctx)
}

func (f *Fake) UploadWatermarkLogo(ctx context.Context, file gateway.UploadFile) (*gateway.WatermarkSettings, error) {
	if f.UploadWatermarkLogoFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.UploadWatermarkLogoFunc(ctx, file)
}

func (f *Fake) PreviewWatermark(ctx context.Context, imageID string) (*gateway.ProcessResult, error) {
	if f.PreviewWatermarkFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.PreviewWatermarkFunc(ctx, imageID)
}
