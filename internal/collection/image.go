// Package collection owns the locally cached, paginated, filtered view of a
// user's image collection and the selection layered on top of it. The
// collection is replaced wholesale on every successful fetch; images are
// never mutated in place by the client.
package collection

import "time"

// Image represents one stored image as known to the client.
type Image struct {
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

// PageState is the pagination metadata derived from the last successful
// fetch. It is never hand-edited.
type PageState struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}

// Snapshot is a persistable capture of a fetched collection page.
type Snapshot struct {
	Images  []Image   `json:"images"`
	Tags    []string  `json:"tags"`
	Page    PageState `json:"page"`
	SavedAt time.Time `json:"saved_at"`
}
