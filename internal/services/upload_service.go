package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"rwstats/internal/models"
	"rwstats/internal/providers"
	"rwstats/internal/store"
	"rwstats/internal/structures"
)

// QuotaExceededError carries the quota guard's user-facing rejection
// message through an upload path.
type QuotaExceededError struct {
	Message string
}

func (e *QuotaExceededError) Error() string {
	return e.Message
}

type UploadServiceInterface interface {
	UploadArticleImage(ctx context.Context, articleID, filename string, data []byte, contentType string) (*models.UploadResult, error)
	UploadGalleryImage(ctx context.Context, imageID, filename string, data []byte, contentType string) (*models.UploadResult, error)
	UploadStructureImage(ctx context.Context, structureID, filename string, data []byte, contentType string) (*models.UploadResult, error)
	DeleteImage(ctx context.Context, path string) error
}

// UploadService owns the three image upload paths. Every path consults
// the quota guard before touching the object store; a rejection aborts
// the upload with the guard's message.
type UploadService struct {
	objects        store.ObjectStore
	quota          StorageServiceInterface
	logger         providers.Logger
	maxUploadBytes int64
	now            func() time.Time
}

func NewUploadService(conf *structures.Config, objects store.ObjectStore, quota StorageServiceInterface, logger providers.Logger) UploadServiceInterface {
	return &UploadService{
		objects:        objects,
		quota:          quota,
		logger:         logger,
		maxUploadBytes: conf.Storage.MaxUploadBytes,
		now:            time.Now,
	}
}

func (us *UploadService) UploadArticleImage(ctx context.Context, articleID, filename string, data []byte, contentType string) (*models.UploadResult, error) {
	if articleID == "" {
		articleID = "temp"
	}
	path := fmt.Sprintf("%s/%s/%d_%s", FolderArticles, articleID, us.now().UnixMilli(), sanitizeFilename(filename))
	return us.upload(ctx, path, data, contentType, false)
}

func (us *UploadService) UploadGalleryImage(ctx context.Context, imageID, filename string, data []byte, contentType string) (*models.UploadResult, error) {
	if imageID == "" {
		imageID = uuid.New().String()
	}
	path := fmt.Sprintf("%s/%s_%d_%s", FolderGallery, imageID, us.now().UnixMilli(), sanitizeFilename(filename))
	return us.upload(ctx, path, data, contentType, false)
}

// UploadStructureImage keys the object by structure id so re-uploading
// a photo replaces the previous one in place.
func (us *UploadService) UploadStructureImage(ctx context.Context, structureID, filename string, data []byte, contentType string) (*models.UploadResult, error) {
	if structureID == "" {
		structureID = uuid.New().String()
	}
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	path := fmt.Sprintf("%s/%s.%s", FolderStructures, structureID, ext)
	return us.upload(ctx, path, data, contentType, true)
}

func (us *UploadService) upload(ctx context.Context, path string, data []byte, contentType string, upsert bool) (*models.UploadResult, error) {
	if int64(len(data)) > us.maxUploadBytes {
		return nil, fmt.Errorf("file too large: %s exceeds the %s limit",
			FormatBytes(int64(len(data))), FormatBytes(us.maxUploadBytes))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	decision := us.quota.CanUploadFile(ctx, int64(len(data)))
	if !decision.CanUpload {
		return nil, &QuotaExceededError{Message: decision.Message}
	}

	if err := us.objects.Upload(ctx, path, data, contentType, upsert); err != nil {
		return nil, err
	}

	us.logger.Infof(providers.TypePost, "Uploaded %s (%s)", path, FormatBytes(int64(len(data))))
	return &models.UploadResult{
		URL:  us.objects.PublicURL(path),
		Path: path,
	}, nil
}

func (us *UploadService) DeleteImage(ctx context.Context, path string) error {
	if err := us.objects.Remove(ctx, []string{path}); err != nil {
		return err
	}
	us.logger.Infof(providers.TypePost, "Removed %s", path)
	return nil
}

// sanitizeFilename strips path components and replaces anything outside
// a safe character set, keeping object keys predictable.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
