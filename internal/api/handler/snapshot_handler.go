package handler

import (
	"encoding/json"
	"net/http"

	"go-basket-analytics/internal/ingest"
	"go-basket-analytics/internal/store"
)

// RefreshSnapshot fetches the full order history and persists a new snapshot
// @Summary Refresh dataset snapshot
// @Description Fetch all orders from the configured commerce API and persist them as the dataset snapshot
// @Tags snapshots
// @Produce json
// @Success 200 {object} model.SnapshotInfo "Snapshot refreshed"
// @Failure 400 {object} map[string]interface{} "Fetch not configured"
// @Failure 502 {object} map[string]interface{} "Upstream fetch failed"
// @Router /snapshots/refresh [post]
func RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	if fetchClient == nil || fetchClient.BaseURL == "" {
		http.Error(w, "Commerce API fetch is not configured", http.StatusBadRequest)
		return
	}

	info, err := ingest.RefreshSnapshot(r.Context(), fetchClient, defaultSnapshot)
	if err != nil {
		http.Error(w, "Failed to refresh snapshot: "+err.Error(), http.StatusBadGateway)
		return
	}
	if err := store.SaveSnapshotInfo(info); err != nil {
		http.Error(w, "Failed to register snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// ListSnapshots lists all registered dataset snapshots
// @Summary List snapshots
// @Description List every dataset snapshot registered in the store
// @Tags snapshots
// @Produce json
// @Success 200 {array} model.SnapshotInfo "Snapshots"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /snapshots [get]
func ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := store.ListSnapshots()
	if err != nil {
		http.Error(w, "Failed to fetch snapshots", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshots)
}
