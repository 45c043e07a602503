package internal

import (
	"net/http"

	"rwstats/internal/controllers"
	"rwstats/internal/providers"
	"rwstats/internal/structures"
)

func InitRoutes(visitorController *controllers.VisitorController, storageController *controllers.StorageController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/visit", http.HandlerFunc(visitorController.RecordVisit))
	routers.Get("/stats", http.HandlerFunc(visitorController.GetStats))
	routers.Get("/stats/summary", http.HandlerFunc(visitorController.GetSummary))
	routers.Get("/stats/range", http.HandlerFunc(visitorController.GetRange))

	routers.Get("/storage", http.HandlerFunc(storageController.GetStorage))
	routers.Post("/storage/check", http.HandlerFunc(storageController.CheckUpload))
	routers.Post("/upload/article", http.HandlerFunc(storageController.UploadArticle))
	routers.Post("/upload/gallery", http.HandlerFunc(storageController.UploadGallery))
	routers.Post("/upload/structure", http.HandlerFunc(storageController.UploadStructure))
	routers.Delete("/upload", http.HandlerFunc(storageController.DeleteImage))

	return routers
}
