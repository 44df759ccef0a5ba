package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-basket-analytics/internal/model"
)

var db *sql.DB

// InitDB opens the SQLite database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			context TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_results (
			analysis_id TEXT PRIMARY KEY,
			mode TEXT,
			payload TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			path TEXT PRIMARY KEY,
			order_count INTEGER,
			fetched_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS output_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT,
			file_name TEXT,
			file_path TEXT,
			file_type TEXT,
			file_size INTEGER,
			download_url TEXT,
			created_at DATETIME
		);`,
	}
	for _, ddl := range tables {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnalysis stores a new analysis job.
func SaveAnalysis(analysisID string, spec model.AnalysisJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO analyses (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		analysisID, specJSON, "pending", now, now)
	return err
}

// UpdateAnalysisStatus updates the status of an analysis job.
func UpdateAnalysisStatus(analysisID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE analyses SET status = ?, updated_at = ? WHERE id = ?`, status, now, analysisID)
	return err
}

// SaveAnalysisError records an error for an analysis job.
func SaveAnalysisError(analysisID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO analysis_errors (analysis_id, error_message, created_at) VALUES (?, ?, ?)`,
		analysisID, err.Error(), now)
	return e
}

// GetAnalysisErrors returns the recorded errors for an analysis job.
func GetAnalysisErrors(analysisID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM analysis_errors WHERE analysis_id = ? ORDER BY created_at`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errors []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errors = append(errors, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errors, rows.Err()
}

// SaveAnalysisLog records one stage log line with optional context.
func SaveAnalysisLog(analysisID, stage, level, message string, context map[string]interface{}) error {
	var ctxJSON []byte
	if context != nil {
		ctxJSON, _ = json.Marshal(context)
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO analysis_logs (analysis_id, stage, level, message, context, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		analysisID, stage, level, message, string(ctxJSON), now)
	return err
}

// GetAnalysisLogs returns up to limit log lines for an analysis job.
func GetAnalysisLogs(analysisID string, limit int) ([]map[string]interface{}, error) {
	rows, err := db.Query(
		`SELECT stage, level, message, context, created_at FROM analysis_logs WHERE analysis_id = ? ORDER BY created_at LIMIT ?`,
		analysisID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []map[string]interface{}
	for rows.Next() {
		var stage, level, message, ctxJSON string
		var createdAt time.Time
		if err := rows.Scan(&stage, &level, &message, &ctxJSON, &createdAt); err != nil {
			return nil, err
		}
		entry := map[string]interface{}{
			"stage":     stage,
			"level":     level,
			"message":   message,
			"createdAt": createdAt,
		}
		if ctxJSON != "" {
			var ctx map[string]interface{}
			if json.Unmarshal([]byte(ctxJSON), &ctx) == nil {
				entry["context"] = ctx
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// ListAnalyses returns all analysis jobs with basic info, newest first.
func ListAnalyses() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM analyses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return analyses, rows.Err()
}

// GetAnalysis fetches the full job spec and status for one analysis.
func GetAnalysis(analysisID string) (map[string]interface{}, error) {
	var specJSON, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM analyses WHERE id = ?`, analysisID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        analysisID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// SaveAnalysisResult persists the full computation result for an analysis.
func SaveAnalysisResult(analysisID string, result *model.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(
		`INSERT INTO analysis_results (analysis_id, mode, payload, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(analysis_id) DO UPDATE SET mode = excluded.mode, payload = excluded.payload, created_at = excluded.created_at`,
		analysisID, result.Mode, string(payload), now)
	return err
}

// GetAnalysisResult loads the persisted computation result for an analysis.
func GetAnalysisResult(analysisID string) (*model.AnalysisResult, error) {
	var payload string
	err := db.QueryRow(`SELECT payload FROM analysis_results WHERE analysis_id = ?`, analysisID).Scan(&payload)
	if err != nil {
		return nil, err
	}
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveSnapshotInfo registers a dataset snapshot.
func SaveSnapshotInfo(info model.SnapshotInfo) error {
	_, err := db.Exec(
		`INSERT INTO snapshots (path, order_count, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET order_count = excluded.order_count, fetched_at = excluded.fetched_at`,
		info.Path, info.OrderCount, info.FetchedAt)
	return err
}

// ListSnapshots returns all registered dataset snapshots, newest first.
func ListSnapshots() ([]model.SnapshotInfo, error) {
	rows, err := db.Query(`SELECT path, order_count, fetched_at FROM snapshots ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []model.SnapshotInfo
	for rows.Next() {
		var info model.SnapshotInfo
		if err := rows.Scan(&info.Path, &info.OrderCount, &info.FetchedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, info)
	}
	return snapshots, rows.Err()
}

// SaveOutputFile registers an export file produced by an analysis job.
func SaveOutputFile(analysisID, fileName, filePath, fileType string, fileSize int64, downloadURL string) error {
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO output_files (analysis_id, file_name, file_path, file_type, file_size, download_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		analysisID, fileName, filePath, fileType, fileSize, downloadURL, now)
	return err
}

// GetOutputFiles returns all export files for an analysis job.
func GetOutputFiles(analysisID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(
		`SELECT id, file_name, file_path, file_type, file_size, download_url, created_at
		 FROM output_files WHERE analysis_id = ? ORDER BY created_at`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []map[string]interface{}
	for rows.Next() {
		var id int
		var fileName, filePath, fileType, downloadURL string
		var fileSize int64
		var createdAt time.Time
		if err := rows.Scan(&id, &fileName, &filePath, &fileType, &fileSize, &downloadURL, &createdAt); err != nil {
			return nil, err
		}
		files = append(files, map[string]interface{}{
			"id":           id,
			"file_name":    fileName,
			"file_path":    filePath,
			"file_type":    fileType,
			"file_size":    fileSize,
			"download_url": downloadURL,
			"createdAt":    createdAt,
		})
	}
	return files, rows.Err()
}

// DeleteAnalysis removes an analysis job and every row referencing it.
func DeleteAnalysis(analysisID string) error {
	stmts := []string{
		`DELETE FROM analysis_errors WHERE analysis_id = ?`,
		`DELETE FROM analysis_logs WHERE analysis_id = ?`,
		`DELETE FROM analysis_results WHERE analysis_id = ?`,
		`DELETE FROM output_files WHERE analysis_id = ?`,
		`DELETE FROM analyses WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt, analysisID); err != nil {
			return err
		}
	}
	return nil
}
