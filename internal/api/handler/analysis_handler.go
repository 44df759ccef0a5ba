package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-basket-analytics/internal/analysis"
	"go-basket-analytics/internal/config"
	"go-basket-analytics/internal/ingest"
	"go-basket-analytics/internal/model"
	"go-basket-analytics/internal/store"
	"go-basket-analytics/pkg/utils"
)

var (
	runner          *analysis.Runner
	defaultSnapshot string
	outputDir       string
	fetchClient     *ingest.Client
)

// Setup wires the handler package to the loaded configuration.
func Setup(cfg *config.Config) {
	runner = &analysis.Runner{
		Limits:          cfg.Limits(),
		OutputDir:       cfg.Output.Dir,
		DefaultStatuses: cfg.Engine.DefaultStatuses,
	}
	defaultSnapshot = cfg.Snapshot.Path
	outputDir = cfg.Output.Dir
	fetchClient = ingest.NewClient(cfg.Fetch.BaseURL, cfg.Fetch.Key, cfg.Fetch.Secret)
	if cfg.Fetch.PerPage > 0 {
		fetchClient.PerPage = cfg.Fetch.PerPage
	}
}

// CreateAnalysis creates and starts a new bought-together analysis job
// @Summary Create a new analysis
// @Description Create and start a bought-together analysis job with the provided parameters
// @Tags analyses
// @Accept json
// @Produce json
// @Param analysis body model.AnalysisJobSpec true "Analysis job configuration"
// @Success 200 {object} map[string]interface{} "Analysis created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [post]
func CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var spec model.AnalysisJobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// Validate the invocation at the policy boundary; data-quality issues
	// degrade gracefully later, parameter errors do not.
	if spec.Snapshot == "" {
		spec.Snapshot = defaultSnapshot
	}
	if spec.Snapshot == "" {
		http.Error(w, "No dataset snapshot configured", http.StatusBadRequest)
		return
	}
	if spec.Analysis.BundleSize < 0 {
		http.Error(w, "bundle_size must not be negative", http.StatusBadRequest)
		return
	}
	if ceiling := runner.Limits.MaxBundleSize; spec.Analysis.BundleSize > ceiling {
		http.Error(w, fmt.Sprintf("bundle_size exceeds the configured ceiling %d", ceiling), http.StatusBadRequest)
		return
	}
	switch spec.Analysis.Mode {
	case "", model.ModePairs, model.ModeBundles:
	default:
		http.Error(w, "mode must be pairs or bundles", http.StatusBadRequest)
		return
	}

	analysisID := uuid.New().String()

	if err := store.SaveAnalysis(analysisID, spec); err != nil {
		http.Error(w, "Failed to save analysis", http.StatusInternalServerError)
		return
	}

	// the runner owns all failure bookkeeping (status + error rows)
	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.Timeout))
	go func() {
		defer cancel()
		runner.Run(ctx, analysisID, spec)
	}()

	resp := map[string]interface{}{
		"message":    "Analysis created successfully!",
		"analysisID": analysisID,
		"status":     "pending",
		"createdAt":  time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListAnalyses retrieves all analysis jobs
// @Summary List all analyses
// @Description Get a list of all analysis jobs with their current status
// @Tags analyses
// @Produce json
// @Success 200 {array} map[string]interface{} "List of analyses"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [get]
func ListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := store.ListAnalyses()
	if err != nil {
		http.Error(w, "Failed to fetch analyses", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analyses)
}

// GetAnalysis retrieves a specific analysis job
// @Summary Get analysis
// @Description Retrieve details of a specific analysis job
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis details"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id} [get]
func GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID, ok := extractID(w, r, "")
	if !ok {
		return
	}
	job, err := store.GetAnalysis(analysisID)
	if err != nil {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetAnalysisErrors retrieves errors for an analysis
// @Summary Get analysis errors
// @Description Retrieve all errors recorded during an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/errors [get]
func GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	analysisID, ok := extractID(w, r, "/errors")
	if !ok {
		return
	}
	errors, err := store.GetAnalysisErrors(analysisID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"analysis_id": analysisID,
		"errors":      errors,
		"count":       len(errors),
	})
}

// GetAnalysisResults retrieves the computed result for an analysis
// @Summary Get analysis results
// @Description Retrieve the ranked pair or bundle results of a completed analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} model.AnalysisResult "Analysis result"
// @Failure 404 {object} map[string]interface{} "Result not available"
// @Router /analyses/{id}/results [get]
func GetAnalysisResults(w http.ResponseWriter, r *http.Request) {
	analysisID, ok := extractID(w, r, "/results")
	if !ok {
		return
	}
	result, err := store.GetAnalysisResult(analysisID)
	if err != nil {
		http.Error(w, "Result not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetAnalysisLogs retrieves stage logs for an analysis
// @Summary Get analysis logs
// @Description Retrieve stage logs recorded during an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Param limit query int false "Maximum number of log lines"
// @Success 200 {object} map[string]interface{} "Analysis logs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/logs [get]
func GetAnalysisLogs(w http.ResponseWriter, r *http.Request) {
	analysisID, ok := extractID(w, r, "/logs")
	if !ok {
		return
	}
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := store.GetAnalysisLogs(analysisID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"analysis_id": analysisID,
		"logs":        logs,
		"count":       len(logs),
		"limit":       limit,
	})
}

// GetAnalysisFiles retrieves the export files produced by an analysis
// @Summary Get analysis files
// @Description List the export files produced by an analysis job
// @Tags files
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Export files"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/files [get]
func GetAnalysisFiles(w http.ResponseWriter, r *http.Request) {
	analysisID, ok := extractID(w, r, "/files")
	if !ok {
		return
	}
	files, err := store.GetOutputFiles(analysisID)
	if err != nil {
		http.Error(w, "Failed to retrieve files", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"analysis_id": analysisID,
		"files":       files,
		"count":       len(files),
	})
}

// DeleteAnalysis deletes an analysis job and its artifacts
// @Summary Delete analysis
// @Description Delete an analysis job and all its associated files and data
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis deleted"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id} [delete]
func DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID, ok := extractID(w, r, "")
	if !ok {
		return
	}
	if _, err := store.GetAnalysis(analysisID); err != nil {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}

	files, _ := store.GetOutputFiles(analysisID)
	for _, file := range files {
		if filePath, ok := file["file_path"].(string); ok {
			os.Remove(filePath)
		}
	}
	os.RemoveAll(fmt.Sprintf("%s/%s", outputDir, analysisID))

	if err := store.DeleteAnalysis(analysisID); err != nil {
		http.Error(w, "Failed to delete analysis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Analysis and all artifacts deleted successfully",
		"analysis_id":   analysisID,
		"files_deleted": len(files),
	})
}

// DownloadFile serves an export file for download
// @Summary Download file
// @Description Download a specific export file from an analysis job
// @Tags files
// @Produce application/octet-stream
// @Param analysisID path string true "Analysis ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{analysisID}/{filename} [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/{analysisID}/{filename}
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 5 {
		http.Error(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	analysisID := pathParts[3]
	fileName := pathParts[4]

	filePath := fmt.Sprintf("%s/%s/%s", outputDir, analysisID, fileName)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

// extractID pulls the analysis ID out of /api/v1/analyses/{id}{suffix}.
func extractID(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/analyses/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	id := path[len(prefix) : len(path)-len(suffix)]
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Analysis ID is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}
