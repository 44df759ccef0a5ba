package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles output file organization and path management for
// analysis exports.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager rooted at baseOutputDir.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// CreateJobOutputDir creates the per-job directory for export files.
func (om *OutputManager) CreateJobOutputDir(jobID string) (string, error) {
	jobDir := filepath.Join(om.BaseOutputDir, jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job output directory: %w", err)
	}
	return jobDir, nil
}

// GetOutputFilePath generates a full path for an output file, stripping any
// path separators from the file name.
func (om *OutputManager) GetOutputFilePath(jobID, fileName string) (string, error) {
	jobDir, err := om.CreateJobOutputDir(jobID)
	if err != nil {
		return "", err
	}
	return filepath.Join(jobDir, filepath.Base(fileName)), nil
}

// GetDownloadURL generates the download URL for an export file.
func (om *OutputManager) GetDownloadURL(jobID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", jobID, filepath.Base(fileName))
}

// GetFileType determines the export file type based on extension.
func (om *OutputManager) GetFileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes.
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// EnsureOutputDirExists ensures the base output directory exists.
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
