package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-basket-analytics/docs"
	"go-basket-analytics/internal/api/handler"
	"go-basket-analytics/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/analyses", handler.CreateAnalysis)
	r.GET("/api/v1/analyses", handler.ListAnalyses)
	// More specific routes first
	r.GET("/api/v1/analyses/*/errors", handler.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/results", handler.GetAnalysisResults)
	r.GET("/api/v1/analyses/*/logs", handler.GetAnalysisLogs)
	r.GET("/api/v1/analyses/*/files", handler.GetAnalysisFiles)
	// Generic analysis routes last
	r.GET("/api/v1/analyses/*", handler.GetAnalysis)
	r.DELETE("/api/v1/analyses/*", handler.DeleteAnalysis)

	r.POST("/api/v1/snapshots/refresh", handler.RefreshSnapshot)
	r.GET("/api/v1/snapshots", handler.ListSnapshots)

	r.GET("/api/v1/download/*", handler.DownloadFile)

	r.GET("/swagger/*", func(w http.ResponseWriter, req *http.Request) {
		httpSwagger.WrapHandler(w, req)
	})
}
