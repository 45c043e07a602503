package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"rwstats/internal/models"
	"rwstats/internal/providers"
	"rwstats/internal/store"
	"rwstats/internal/structures"
)

// The three logical folders holding site images.
const (
	FolderArticles   = "articles"
	FolderGallery    = "gallery"
	FolderStructures = "structures"
)

type StorageServiceInterface interface {
	GetStorageStats(ctx context.Context) (*models.StorageStats, error)
	CanUploadFile(ctx context.Context, fileSize int64) models.UploadDecision
	StoragePercentage(usedBytes int64) float64
	RemainingStorage(usedBytes int64) int64
	IsFull(usedBytes int64, threshold float64) bool
	MaxBytes() int64
}

// StorageService is the quota guard. Its error policy is the opposite
// of the visitor tracker's: it fails closed. When usage cannot be
// determined the guard rejects the upload rather than letting an
// unbounded write through.
type StorageService struct {
	objects   store.ObjectStore
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	maxBytes  int64
	threshold float64
	listLimit int
	now       func() time.Time
}

func NewStorageService(conf *structures.Config, objects store.ObjectStore, logger providers.Logger, metrics providers.MetricsProviderInterface) StorageServiceInterface {
	return &StorageService{
		objects:   objects,
		logger:    logger,
		metrics:   metrics,
		maxBytes:  conf.Storage.MaxBytes,
		threshold: conf.Storage.ThresholdPercent,
		listLimit: conf.Storage.ListLimit,
		now:       time.Now,
	}
}

func (ss *StorageService) MaxBytes() int64 {
	return ss.maxBytes
}

// GetStorageStats re-scans all three folders on every call. No caching:
// a stale aggregate is exactly what the guard exists to avoid. A
// listing failure in one folder degrades that folder's contribution to
// zero instead of aborting the whole scan.
func (ss *StorageService) GetStorageStats(ctx context.Context) (*models.StorageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := ss.now()

	var wg sync.WaitGroup
	usages := make([]models.FolderUsage, 3)
	for i, folder := range []string{FolderArticles, FolderGallery, FolderStructures} {
		wg.Add(1)
		go func(i int, folder string) {
			defer wg.Done()
			usages[i] = ss.folderUsage(ctx, folder)
		}(i, folder)
	}
	wg.Wait()

	stats := &models.StorageStats{
		ArticleImagesSize:   usages[0].Size,
		GalleryImagesSize:   usages[1].Size,
		StructureImagesSize: usages[2].Size,
		TotalSize:           usages[0].Size + usages[1].Size + usages[2].Size,
		FileCount:           usages[0].Count + usages[1].Count + usages[2].Count,
		Truncated:           usages[0].Truncated || usages[1].Truncated || usages[2].Truncated,
		LastUpdated:         ss.now(),
	}

	ss.metrics.SetStorageUsedBytes(stats.TotalSize)
	ss.metrics.ObserveStorageScanDuration(ss.now().Sub(start))
	return stats, nil
}

// folderUsage sums the sizes of entries that expose usable size
// metadata; entries without one contribute nothing (tolerated
// undercount).
func (ss *StorageService) folderUsage(ctx context.Context, folder string) models.FolderUsage {
	page, err := ss.objects.List(ctx, folder, ss.listLimit)
	if err != nil {
		ss.logger.Warnf(providers.TypeApp, "Failed to list files in %s: %s", folder, err)
		return models.FolderUsage{}
	}

	var usage models.FolderUsage
	usage.Truncated = page.Truncated
	for _, entry := range page.Entries {
		if !entry.HasSize {
			continue
		}
		usage.Size += entry.Size
		usage.Count++
	}
	return usage
}

// CanUploadFile approves the upload only when current usage plus the
// file stays strictly below the threshold percentage of the ceiling.
func (ss *StorageService) CanUploadFile(ctx context.Context, fileSize int64) models.UploadDecision {
	stats, err := ss.GetStorageStats(ctx)
	if err != nil {
		ss.logger.Errorf(providers.TypeApp, "Error checking storage capacity: %s", err)
		return models.UploadDecision{
			CanUpload: false,
			Message:   "Gagal mengecek kapasitas storage. Silakan coba lagi.",
		}
	}

	afterUpload := stats.TotalSize + fileSize
	if ss.IsFull(afterUpload, ss.threshold) {
		remaining := ss.RemainingStorage(stats.TotalSize)
		return models.UploadDecision{
			CanUpload: false,
			Message: fmt.Sprintf(
				"Storage hampir penuh! Tersisa %s. File yang akan diupload (%s) akan melebihi batas storage.",
				FormatBytes(remaining), FormatBytes(fileSize)),
		}
	}

	return models.UploadDecision{CanUpload: true}
}

// StoragePercentage reports usage as a percentage of the ceiling,
// capped at 100.
func (ss *StorageService) StoragePercentage(usedBytes int64) float64 {
	return math.Min(float64(usedBytes)/float64(ss.maxBytes)*100, 100)
}

func (ss *StorageService) RemainingStorage(usedBytes int64) int64 {
	return max(ss.maxBytes-usedBytes, 0)
}

func (ss *StorageService) IsFull(usedBytes int64, threshold float64) bool {
	return ss.StoragePercentage(usedBytes) >= threshold
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count in base-1024 units for user-facing
// messages, trimming trailing zeros ("1 KB", "1.5 MB").
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	v := float64(bytes) / math.Pow(1024, float64(i))
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[i]
}
