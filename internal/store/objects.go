package store

import "context"

// ObjectInfo describes one listed object. HasSize is false when the
// backend did not expose usable size metadata for the entry; such
// entries are skipped by the quota scan (tolerated undercount).
type ObjectInfo struct {
	Path    string
	Size    int64
	HasSize bool
}

// ListPage is one page of folder contents. Truncated is set when the
// folder holds more entries than the requested limit.
type ListPage struct {
	Entries   []ObjectInfo
	Truncated bool
}

// ObjectStore is the object storage collaborator. Folders are path
// prefixes, not first-class entities.
type ObjectStore interface {
	List(ctx context.Context, folder string, limit int) (ListPage, error)
	Upload(ctx context.Context, path string, data []byte, contentType string, upsert bool) error
	Remove(ctx context.Context, paths []string) error
	PublicURL(path string) string
}
