package controllers

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"rwstats/internal/providers"
	"rwstats/internal/services"
)

type StorageController struct {
	logger  providers.Logger
	storage services.StorageServiceInterface
	uploads services.UploadServiceInterface
}

func NewStorageController(logger providers.Logger, storage services.StorageServiceInterface, uploads services.UploadServiceInterface) *StorageController {
	return &StorageController{
		logger:  logger,
		storage: storage,
		uploads: uploads,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// GetStorage is deliberately uncached: every call re-scans the folders
// so the numbers shown next to an upload form are current.
func (sc *StorageController) GetStorage(w http.ResponseWriter, r *http.Request) {
	stats, err := sc.storage.GetStorageStats(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (sc *StorageController) CheckUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		FileSize int64 `json:"fileSize"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.FileSize < 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, sc.storage.CanUploadFile(r.Context(), payload.FileSize))
}

func (sc *StorageController) UploadArticle(w http.ResponseWriter, r *http.Request) {
	sc.handleUpload(w, r, "articleId", func(r *http.Request, id, filename string, data []byte, contentType string) (any, error) {
		return sc.uploads.UploadArticleImage(r.Context(), id, filename, data, contentType)
	})
}

func (sc *StorageController) UploadGallery(w http.ResponseWriter, r *http.Request) {
	sc.handleUpload(w, r, "imageId", func(r *http.Request, id, filename string, data []byte, contentType string) (any, error) {
		return sc.uploads.UploadGalleryImage(r.Context(), id, filename, data, contentType)
	})
}

func (sc *StorageController) UploadStructure(w http.ResponseWriter, r *http.Request) {
	sc.handleUpload(w, r, "structureId", func(r *http.Request, id, filename string, data []byte, contentType string) (any, error) {
		return sc.uploads.UploadStructureImage(r.Context(), id, filename, data, contentType)
	})
}

const maxUploadBodySize = 32 << 20 // multipart cap, service enforces the real limit

func (sc *StorageController) handleUpload(w http.ResponseWriter, r *http.Request, idField string, upload func(r *http.Request, id, filename string, data []byte, contentType string) (any, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := upload(r, r.FormValue(idField), header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		var quotaErr *services.QuotaExceededError
		if errors.As(err, &quotaErr) {
			writeJSON(w, http.StatusInsufficientStorage, map[string]string{"error": quotaErr.Message})
			return
		}
		sc.logger.Errorf(providers.TypePost, "Upload failed: %s", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (sc *StorageController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := sc.uploads.DeleteImage(r.Context(), path); err != nil {
		sc.logger.Errorf(providers.TypePost, "Delete failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
