package store

import (
	"context"
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"rwstats/internal/models"
)

// FileStore keeps visitor records in memory and snapshots them to a
// single zstd-compressed JSON file. Persist is driven by the scheduler
// (interval + shutdown); a crash between snapshots loses at most one
// interval of counts, which is acceptable for these counters.
type FileStore struct {
	mu         sync.RWMutex
	records    map[string]*models.VisitorStats
	path       string
	compressor CompressorInterface
}

func NewFileStore(path string, compressor CompressorInterface) *FileStore {
	return &FileStore{
		records:    make(map[string]*models.VisitorStats),
		path:       path,
		compressor: compressor,
	}
}

func (f *FileStore) Get(_ context.Context, id string) (*models.VisitorStats, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (f *FileStore) Insert(_ context.Context, stats *models.VisitorStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[stats.ID] = stats.Clone()
	return nil
}

func (f *FileStore) Update(_ context.Context, stats *models.VisitorStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[stats.ID]; !ok {
		return ErrNotFound
	}
	f.records[stats.ID] = stats.Clone()
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

// Persist writes the snapshot atomically: tmp file, fsync, rename.
func (f *FileStore) Persist() error {
	f.mu.RLock()
	jsonData, err := json.Marshal(f.records)
	f.mu.RUnlock()
	if err != nil {
		return err
	}

	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

// Restore loads the snapshot. A missing file is a clean first start.
// Snapshots written before compression was introduced are plain JSON;
// they are read as-is and migrate to the compressed format on the next
// Persist.
func (f *FileStore) Restore() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	records := make(map[string]*models.VisitorStats)
	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		if jsonErr := json.Unmarshal(data, &records); jsonErr != nil {
			return err
		}
	} else if err := json.Unmarshal(decompressed, &records); err != nil {
		return err
	}

	f.mu.Lock()
	f.records = records
	f.mu.Unlock()
	return nil
}
