package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwstats/internal/controllers"
	"rwstats/internal/models"
	"rwstats/internal/providers"
	"rwstats/internal/structures"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}

type routeTestVisitors struct{}

func (m *routeTestVisitors) RecordVisit(context.Context, *models.VisitInput) *models.VisitReceipt {
	return &models.VisitReceipt{}
}
func (m *routeTestVisitors) GetStats(context.Context) (*models.VisitorStats, error) {
	return &models.VisitorStats{}, nil
}
func (m *routeTestVisitors) Summary(context.Context) (*models.VisitorSummary, error) {
	return &models.VisitorSummary{}, nil
}
func (m *routeTestVisitors) Range(context.Context, int) (*models.VisitorRange, error) {
	return &models.VisitorRange{}, nil
}
func (m *routeTestVisitors) CleanupOldData(context.Context, int) error  { return nil }
func (m *routeTestVisitors) BackfillHistory(context.Context, int) error { return nil }

type routeTestStorage struct{}

func (m *routeTestStorage) GetStorageStats(context.Context) (*models.StorageStats, error) {
	return &models.StorageStats{}, nil
}
func (m *routeTestStorage) CanUploadFile(context.Context, int64) models.UploadDecision {
	return models.UploadDecision{CanUpload: true}
}
func (m *routeTestStorage) StoragePercentage(int64) float64 { return 0 }
func (m *routeTestStorage) RemainingStorage(int64) int64    { return 0 }
func (m *routeTestStorage) IsFull(int64, float64) bool      { return false }
func (m *routeTestStorage) MaxBytes() int64                 { return 0 }

type routeTestUploads struct{}

func (m *routeTestUploads) UploadArticleImage(context.Context, string, string, []byte, string) (*models.UploadResult, error) {
	return &models.UploadResult{}, nil
}
func (m *routeTestUploads) UploadGalleryImage(context.Context, string, string, []byte, string) (*models.UploadResult, error) {
	return &models.UploadResult{}, nil
}
func (m *routeTestUploads) UploadStructureImage(context.Context, string, string, []byte, string) (*models.UploadResult, error) {
	return &models.UploadResult{}, nil
}
func (m *routeTestUploads) DeleteImage(context.Context, string) error { return nil }

func buildTestRouter() providers.RouterProviderInterface {
	logger := &routeTestLogger{}
	vc := controllers.NewVisitorController(logger, &routeTestVisitors{}, &routeTestCache{})
	sc := controllers.NewStorageController(logger, &routeTestStorage{}, &routeTestUploads{})
	return InitRoutes(vc, sc, &structures.Config{})
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	routes := buildTestRouter().GetRoutes()

	require.Len(t, routes, 10)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/visit")
	assert.Contains(t, urls, "/stats")
	assert.Contains(t, urls, "/stats/summary")
	assert.Contains(t, urls, "/stats/range")
	assert.Contains(t, urls, "/storage")
	assert.Contains(t, urls, "/storage/check")
	assert.Contains(t, urls, "/upload/article")
	assert.Contains(t, urls, "/upload/gallery")
	assert.Contains(t, urls, "/upload/structure")
	assert.Contains(t, urls, "/upload")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	routes := buildTestRouter().GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /stats with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/stats", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /visit with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/visit", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// DELETE /upload with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/upload", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
