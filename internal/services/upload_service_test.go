package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwstats/internal/models"
	"rwstats/internal/testutil"
)

type stubQuota struct {
	decision models.UploadDecision
	asked    []int64
}

func (s *stubQuota) GetStorageStats(context.Context) (*models.StorageStats, error) { return nil, nil }
func (s *stubQuota) CanUploadFile(_ context.Context, fileSize int64) models.UploadDecision {
	s.asked = append(s.asked, fileSize)
	return s.decision
}
func (s *stubQuota) StoragePercentage(int64) float64      { return 0 }
func (s *stubQuota) RemainingStorage(int64) int64         { return 0 }
func (s *stubQuota) IsFull(int64, float64) bool           { return false }
func (s *stubQuota) MaxBytes() int64                      { return 0 }

func newTestUploadService(objects *testutil.MockObjectStore, quota StorageServiceInterface) *UploadService {
	return &UploadService{
		objects:        objects,
		quota:          quota,
		logger:         &testutil.MockLogger{},
		maxUploadBytes: 5 * 1024 * 1024,
		now:            func() time.Time { return testNow },
	}
}

func TestUploadArticleImage_PathLayout(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	result, err := us.UploadArticleImage(context.Background(), "42", "foto warga.png", []byte("img"), "image/png")
	require.NoError(t, err)

	want := fmt.Sprintf("articles/42/%d_foto-warga.png", testNow.UnixMilli())
	assert.Equal(t, want, result.Path)
	assert.Equal(t, "https://cdn.test/public/"+want, result.URL)

	require.Len(t, objects.Uploads, 1)
	assert.False(t, objects.Uploads[0].Upsert)
	assert.Equal(t, "image/png", objects.Uploads[0].ContentType)
}

func TestUploadArticleImage_EmptyIDUsesTemp(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	result, err := us.UploadArticleImage(context.Background(), "", "a.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, result.Path, "articles/temp/")
}

func TestUploadGalleryImage_EmptyIDGetsUUID(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	result, err := us.UploadGalleryImage(context.Background(), "", "b.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)

	rest := result.Path[len("gallery/"):]
	id := rest[:36]
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr, "generated gallery id should be a uuid, got %q", id)
}

func TestUploadStructureImage_UpsertsByID(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	result, err := us.UploadStructureImage(context.Background(), "ketua-rw", "profil.PNG", []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "structures/ketua-rw.PNG", result.Path)
	require.Len(t, objects.Uploads, 1)
	assert.True(t, objects.Uploads[0].Upsert, "same id replaces the previous photo")
}

func TestUploadStructureImage_DefaultExtension(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	result, err := us.UploadStructureImage(context.Background(), "bendahara", "noext", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "structures/bendahara.jpg", result.Path)
}

func TestUpload_QuotaRejectionAbortsBeforeStore(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	quota := &stubQuota{decision: models.UploadDecision{CanUpload: false, Message: "Storage hampir penuh!"}}
	us := newTestUploadService(objects, quota)

	_, err := us.UploadArticleImage(context.Background(), "1", "a.jpg", []byte("img"), "image/jpeg")

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "Storage hampir penuh!", quotaErr.Message)
	assert.Empty(t, objects.Uploads, "rejected upload must not reach the object store")
	assert.Equal(t, []int64{3}, quota.asked, "the guard sees the actual payload size")
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})
	us.maxUploadBytes = 10

	_, err := us.UploadArticleImage(context.Background(), "1", "a.jpg", []byte("0123456789ab"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
	assert.Empty(t, objects.Uploads)
}

func TestUpload_RejectsNonImageContentType(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	_, err := us.UploadArticleImage(context.Background(), "1", "a.exe", []byte("MZ"), "application/octet-stream")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestUpload_StoreErrorPropagates(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	objects.UploadErr = errors.New("access denied")
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	_, err := us.UploadArticleImage(context.Background(), "1", "a.jpg", []byte("img"), "image/jpeg")
	assert.ErrorContains(t, err, "access denied")
}

func TestDeleteImage(t *testing.T) {
	objects := testutil.NewMockObjectStore()
	us := newTestUploadService(objects, &stubQuota{decision: models.UploadDecision{CanUpload: true}})

	require.NoError(t, us.DeleteImage(context.Background(), "gallery/old.jpg"))
	assert.Equal(t, []string{"gallery/old.jpg"}, objects.Removed)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"foto warga.png":      "foto-warga.png",
		"../../etc/passwd":    "passwd",
		"laporan (final).pdf": "laporan--final-.pdf",
		"rapat_09-2025.jpg":   "rapat_09-2025.jpg",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), "sanitizeFilename(%q)", in)
	}
}
