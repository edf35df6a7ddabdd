package gateway

import "time"

// ImageRecord is the wire representation of a stored image.
type ImageRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	SizeBytes     int64     `json:"size_bytes"`
	Tags          []string  `json:"tags"`
	IsProcessed   bool      `json:"is_processed"`
	DownloadCount int       `json:"download_count"`
	ShareCount    int       `json:"share_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// CollectionQuery specifies filtering, sorting, and pagination for a
// collection query.
type CollectionQuery struct {
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
	Search        string   `json:"search,omitempty"`
	ProjectID     string   `json:"project_id,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	DateRange     string   `json:"date_range,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	SortDirection string   `json:"sort_direction,omitempty"`
}

// Pagination is the wire pagination metadata returned with collection results.
type Pagination struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// CollectionResult is the payload of a successful collection query.
type CollectionResult struct {
	Images     []ImageRecord `json:"images"`
	Tags       []string      `json:"tags"`
	Pagination Pagination    `json:"pagination"`
}

// UploadFile carries the bytes and metadata of a single file to upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadRequest uploads one or more files to the remote store.
type UploadRequest struct {
	Files     []UploadFile
	ProjectID string
	Tags      []string
}

// UploadResult is the payload of a successful upload.
type UploadResult struct {
	UploadedImages []ImageRecord `json:"uploaded_images"`
}

// Adjustments is the wire representation of manual tuning parameters.
type Adjustments struct {
	Brightness  int         `json:"brightness"`
	Contrast    int         `json:"contrast"`
	Saturation  int         `json:"saturation"`
	Temperature int         `json:"temperature"`
	Sharpness   int         `json:"sharpness"`
	Shadows     int         `json:"shadows"`
	Highlights  int         `json:"highlights"`
	Crop        *CropRegion `json:"crop,omitempty"`
	Format      string      `json:"format"`
	Quality     int         `json:"quality"`
}

// CropRegion is an optional crop rectangle in source pixel coordinates.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AutoProcessRequest applies a named server-defined preset to an image.
type AutoProcessRequest struct {
	ImageID string `json:"image_id"`
	Preset  string `json:"preset"`
	Preview bool   `json:"preview"`
}

// ManualProcessRequest applies explicit adjustments to an image.
type ManualProcessRequest struct {
	ImageID     string      `json:"image_id"`
	Adjustments Adjustments `json:"adjustments"`
	Preview     bool        `json:"preview"`
}

// ProcessResult is the payload of a processing call. PreviewURL is set for
// preview requests; ProcessedImage for committed processing.
type ProcessResult struct {
	PreviewURL     string       `json:"preview_url,omitempty"`
	ProcessedImage *ImageRecord `json:"processed_image,omitempty"`
}

// BatchProcessRequest processes a set of images with a shared mode and options.
type BatchProcessRequest struct {
	ImageIDs []string       `json:"image_ids"`
	Mode     string         `json:"mode"`
	Options  map[string]any `json:"options,omitempty"`
}

// BatchItemResult reports the outcome of one image within a batch operation.
type BatchItemResult struct {
	ImageID string `json:"image_id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BatchProcessResult is the payload of a batch process call.
type BatchProcessResult struct {
	Results []BatchItemResult `json:"per_image_results"`
}

// DownloadRequest retrieves the binary payload of one image.
type DownloadRequest struct {
	ImageID string
	Options map[string]string
}

// BatchDownloadRequest retrieves an archive of multiple images.
type BatchDownloadRequest struct {
	ImageIDs []string
	Options  map[string]string
}

// DownloadResult carries a downloaded binary payload and its suggested filename.
type DownloadResult struct {
	Data     []byte
	Filename string
}

// ShareRequest creates a token-addressable public view of selected images.
// Optional fields are omitted from the wire body when disabled.
type ShareRequest struct {
	ImageIDs       []string `json:"image_ids"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	ExpirationDays *int     `json:"expiration_days,omitempty"`
	Password       *string  `json:"password,omitempty"`
	MaxAccess      *int     `json:"max_access,omitempty"`
}

// Share is the wire representation of a created share.
type Share struct {
	ID             string    `json:"id"`
	ShareToken     string    `json:"share_token"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	ImageIDs       []string  `json:"image_ids"`
	ExpirationDays *int      `json:"expiration_days,omitempty"`
	HasPassword    bool      `json:"has_password"`
	MaxAccess      *int      `json:"max_access,omitempty"`
	AccessCount    int       `json:"access_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// WatermarkSettings is the wire representation of account watermark settings.
type WatermarkSettings struct {
	Position  string  `json:"position"`
	Opacity   float64 `json:"opacity"`
	Size      int     `json:"size"`
	Padding   int     `json:"padding"`
	AutoApply bool    `json:"auto_apply"`
	LogoURL   string  `json:"logo_url,omitempty"`
}
