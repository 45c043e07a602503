package models

import "time"

// FolderUsage is the aggregate of one logical object-store folder.
// Truncated is set when the listing hit the page cap, meaning Size and
// Count are lower bounds.
type FolderUsage struct {
	Size      int64 `json:"size"`
	Count     int   `json:"count"`
	Truncated bool  `json:"truncated"`
}

// StorageStats is a point-in-time snapshot of object-store usage across
// the three image folders. It is computed on demand and never persisted.
type StorageStats struct {
	TotalSize           int64     `json:"totalSize"`
	ArticleImagesSize   int64     `json:"articleImagesSize"`
	GalleryImagesSize   int64     `json:"galleryImagesSize"`
	StructureImagesSize int64     `json:"structureImagesSize"`
	FileCount           int       `json:"fileCount"`
	Truncated           bool      `json:"truncated"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// UploadDecision is the quota guard's verdict on a prospective upload.
// Message is user-facing and only set on rejection.
type UploadDecision struct {
	CanUpload bool   `json:"canUpload"`
	Message   string `json:"message,omitempty"`
}

// UploadResult is returned by the upload paths once the object landed.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
