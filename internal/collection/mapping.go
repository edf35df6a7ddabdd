package collection

import "github.com/photodesk/photodesk/internal/gateway"

// FromRecord converts a wire image record to the client model.
func FromRecord(r gateway.ImageRecord) Image {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	return Image{
		ID:            r.ID,
		Name:          r.Name,
		URL:           r.URL,
		Width:         r.Width,
		Height:        r.Height,
		SizeBytes:     r.SizeBytes,
		Tags:          tags,
		IsProcessed:   r.IsProcessed,
		DownloadCount: r.DownloadCount,
		ShareCount:    r.ShareCount,
		CreatedAt:     r.CreatedAt,
	}
}

// FromRecords converts a slice of wire records, never returning nil.
func FromRecords(records []gateway.ImageRecord) []Image {
	images := make([]Image, 0, len(records))
	for _, r := range records {
		images = append(images, FromRecord(r))
	}
	return images
}
