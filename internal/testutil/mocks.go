package testutil

import (
	"context"
	"sync"
	"time"

	"rwstats/internal/models"
	"rwstats/internal/providers"
	"rwstats/internal/store"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// LevelCount returns how many entries were recorded at a level.
func (m *MockLogger) LevelCount(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	VisitResults     []string
	StorageUsed      []int64
	ScanObservations int
	PersistDurations int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) IncVisits(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisitResults = append(m.VisitResults, result)
}
func (m *MockMetrics) ObserveStorageScanDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScanObservations++
}
func (m *MockMetrics) SetStorageUsedBytes(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageUsed = append(m.StorageUsed, bytes)
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistDurations++
}

// MockRecordStore is an in-memory store.RecordStore with per-call error
// injection.
type MockRecordStore struct {
	mu        sync.Mutex
	Records   map[string]*models.VisitorStats
	GetErr    error
	InsertErr error
	UpdateErr error
	Inserts   int
	Updates   int
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{Records: make(map[string]*models.VisitorStats)}
}

func (m *MockRecordStore) Get(_ context.Context, id string) (*models.VisitorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	rec, ok := m.Records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *MockRecordStore) Insert(_ context.Context, stats *models.VisitorStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserts++
	m.Records[stats.ID] = stats.Clone()
	return nil
}

func (m *MockRecordStore) Update(_ context.Context, stats *models.VisitorStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.Records[stats.ID]; !ok {
		return store.ErrNotFound
	}
	m.Updates++
	m.Records[stats.ID] = stats.Clone()
	return nil
}

func (m *MockRecordStore) Close() error { return nil }

// Stats returns the stored record without cloning, for assertions.
func (m *MockRecordStore) Stats() *models.VisitorStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Records[models.VisitorStatsID]
}

// MockObjectStore is an in-memory store.ObjectStore.
type MockObjectStore struct {
	mu        sync.Mutex
	Folders   map[string][]store.ObjectInfo
	ListErrs  map[string]error
	Truncate  map[string]bool
	UploadErr error
	Uploads   []MockUpload
	Removed   []string
	BaseURL   string
}

type MockUpload struct {
	Path        string
	Size        int64
	ContentType string
	Upsert      bool
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Folders:  make(map[string][]store.ObjectInfo),
		ListErrs: make(map[string]error),
		Truncate: make(map[string]bool),
		BaseURL:  "https://cdn.test/public",
	}
}

func (m *MockObjectStore) List(_ context.Context, folder string, limit int) (store.ListPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ListErrs[folder]; err != nil {
		return store.ListPage{}, err
	}
	entries := m.Folders[folder]
	if len(entries) > limit {
		return store.ListPage{Entries: entries[:limit], Truncated: true}, nil
	}
	return store.ListPage{Entries: entries, Truncated: m.Truncate[folder]}, nil
}

func (m *MockObjectStore) Upload(_ context.Context, path string, data []byte, contentType string, upsert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.Uploads = append(m.Uploads, MockUpload{
		Path:        path,
		Size:        int64(len(data)),
		ContentType: contentType,
		Upsert:      upsert,
	})
	return nil
}

func (m *MockObjectStore) Remove(_ context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, paths...)
	return nil
}

func (m *MockObjectStore) PublicURL(path string) string {
	return m.BaseURL + "/" + path
}

// MockCompressor passes data through unchanged.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}
