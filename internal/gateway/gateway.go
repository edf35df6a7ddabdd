package gateway

import "context"

// Gateway defines the remote image store operations consumed by the client.
// Implementations return ErrRemoteFailure (wrapping the server message) when
// a call completes with success=false, and ErrTransport when the call never
// completes. A nil error always carries a valid payload.
type Gateway interface {
	// QueryCollection returns one page of the caller's image collection.
	QueryCollection(ctx context.Context, query CollectionQuery) (*CollectionResult, error)

	// Upload stores one or more files and returns their created records.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// AutoProcess applies a named preset. With Preview set the result carries
	// a discardable preview URL instead of a committed record.
	AutoProcess(ctx context.Context, req AutoProcessRequest) (*ProcessResult, error)

	// ManualProcess applies explicit adjustments, preview or committed.
	ManualProcess(ctx context.Context, req ManualProcessRequest) (*ProcessResult, error)

	// BatchProcess processes multiple images with shared options.
	BatchProcess(ctx context.Context, req BatchProcessRequest) (*BatchProcessResult, error)

	// Delete removes a single image from the remote store.
	Delete(ctx context.Context, imageID string) error

	// Download retrieves the binary payload of one image.
	Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error)

	// BatchDownload retrieves an archive of multiple images.
	BatchDownload(ctx context.Context, req BatchDownloadRequest) (*DownloadResult, error)

	// CreateShare creates a share from the given request.
	CreateShare(ctx context.Context, req ShareRequest) (*Share, error)

	// ListShares returns the caller's existing shares.
	ListShares(ctx context.Context) ([]Share, error)

	// DeleteShare revokes an existing share.
	DeleteShare(ctx context.Context, shareID string) error

	// WatermarkSettings returns the account watermark settings.
	WatermarkSettings(ctx context.Context) (*WatermarkSettings, error)

	// UpdateWatermarkSettings replaces the account watermark settings.
	UpdateWatermarkSettings(ctx context.Context, settings WatermarkSettings) (*WatermarkSettings, error)

	// DeleteWatermarkSettings removes the account watermark settings.
	DeleteWatermarkSettings(ctx context.Context) error

	// UploadWatermarkLogo stores a new watermark logo image.
	UploadWatermarkLogo(ctx context.Context, file UploadFile) (*WatermarkSettings, error)

	// PreviewWatermark renders a watermark preview on the given image.
	PreviewWatermark(ctx context.Context, imageID string) (*ProcessResult, error)
}
