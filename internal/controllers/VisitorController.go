package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"rwstats/internal/models"
	"rwstats/internal/providers"
	"rwstats/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const maxRangeDays = 90

type VisitorController struct {
	logger  providers.Logger
	service services.VisitorServiceInterface
	cache   providers.CacheProviderInterface
}

func NewVisitorController(logger providers.Logger, service services.VisitorServiceInterface, cache providers.CacheProviderInterface) *VisitorController {
	return &VisitorController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (vc *VisitorController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := vc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// RecordVisit never reports a tracking failure as an error status: the
// receipt simply comes back uncounted and markerless.
func (vc *VisitorController) RecordVisit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.VisitInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	receipt := vc.service.RecordVisit(r.Context(), &payload)

	gson, err := json.Marshal(receipt)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if receipt.Counted {
		w.WriteHeader(http.StatusCreated)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_, _ = w.Write(gson)
}

func (vc *VisitorController) GetStats(w http.ResponseWriter, r *http.Request) {
	vc.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		return vc.service.GetStats(r.Context())
	})
}

func (vc *VisitorController) GetSummary(w http.ResponseWriter, r *http.Request) {
	vc.serveFromCacheOrCompute(w, "summary", func() (any, error) {
		return vc.service.Summary(r.Context())
	})
}

func (vc *VisitorController) GetRange(w http.ResponseWriter, r *http.Request) {
	days := cast.ToInt(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 7
	}
	if days > maxRangeDays {
		days = maxRangeDays
	}

	vc.serveFromCacheOrCompute(w, "range:"+cast.ToString(days), func() (any, error) {
		return vc.service.Range(r.Context(), days)
	})
}
