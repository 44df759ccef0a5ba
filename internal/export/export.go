// Package export writes analysis results to CSV/JSON files and registers
// them as downloadable job artifacts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-basket-analytics/internal/model"
	"go-basket-analytics/internal/store"
	"go-basket-analytics/pkg/utils"
)

// Manager handles result export operations for one analysis job.
type Manager struct {
	AnalysisID string
	Spec       *model.ExportSpec
	Output     *utils.OutputManager
}

// NewManager builds an export manager.
func NewManager(analysisID string, spec *model.ExportSpec, output *utils.OutputManager) *Manager {
	return &Manager{AnalysisID: analysisID, Spec: spec, Output: output}
}

// Run exports the analysis result to every configured destination and
// returns one ExportResult per destination.
func (m *Manager) Run(result *model.AnalysisResult) []model.ExportResult {
	if m.Spec == nil {
		return nil
	}

	var results []model.ExportResult

	fileName := m.Spec.File
	if fileName == "" {
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		format := m.Spec.Format
		if format == "" {
			format = "csv"
		}
		fileName = fmt.Sprintf("bought_together_%s.%s", timestamp, format)
	}

	res := m.exportToFile(fileName, result)
	results = append(results, res)
	if res.Success {
		fmt.Printf("✅ Export successful: %d rows written to %s\n", res.RecordCount, res.Path)
	} else {
		fmt.Printf("❌ Export failed: %s\n", res.Error)
	}

	if m.Spec.DB {
		dbRes := model.ExportResult{Type: "database", Path: "analysis_results", ExportedAt: time.Now()}
		if err := store.SaveAnalysisResult(m.AnalysisID, result); err != nil {
			dbRes.Error = err.Error()
		} else {
			dbRes.Success = true
			dbRes.RecordCount = len(result.Pairs) + len(result.Bundles)
		}
		results = append(results, dbRes)
	}

	return results
}

// exportToFile writes the result as CSV or JSON depending on extension.
func (m *Manager) exportToFile(fileName string, result *model.AnalysisResult) model.ExportResult {
	filePath, err := m.Output.GetOutputFilePath(m.AnalysisID, fileName)
	if err != nil {
		return model.ExportResult{Type: "file", Path: fileName, Error: err.Error(), ExportedAt: time.Now()}
	}

	rowCount, err := WriteResultFile(filePath, m.AnalysisID, result)

	res := model.ExportResult{
		Type:        "file",
		Path:        filePath,
		RecordCount: rowCount,
		Success:     err == nil,
		ExportedAt:  time.Now(),
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	size, _ := m.Output.GetFileSize(filePath)
	baseName := filepath.Base(filePath)
	if err := store.SaveOutputFile(m.AnalysisID, baseName, filePath, m.Output.GetFileType(baseName),
		size, m.Output.GetDownloadURL(m.AnalysisID, baseName)); err != nil {
		fmt.Printf("⚠️ Failed to register output file %s: %v\n", baseName, err)
	}
	return res
}

// WriteResultFile writes the result to path as CSV or JSON depending on the
// file extension, returning the number of data rows written.
func WriteResultFile(path, analysisID string, result *model.AnalysisResult) (int, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return writeJSONFile(path, analysisID, result)
	}
	return writeCSVFile(path, result)
}

// writeCSVFile writes a strict projection of the result schema; encoding/csv
// quote-escapes every free-text field.
func writeCSVFile(path string, result *model.AnalysisResult) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if result.Mode == model.ModeBundles {
		return writeBundleRows(writer, result.Bundles)
	}
	return writePairRows(writer, result.Pairs)
}

func writePairRows(writer *csv.Writer, pairs []model.PairResult) (int, error) {
	header := []string{
		"item_a", "item_b", "support", "support_pct",
		"count_a", "count_b", "confidence_a_to_b", "confidence_b_to_a", "lift",
	}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range pairs {
		row := []string{
			p.ItemA,
			p.ItemB,
			strconv.Itoa(p.Support),
			formatFloat(p.SupportPct),
			strconv.Itoa(p.CountA),
			strconv.Itoa(p.CountB),
			formatFloat(p.ConfidenceAToB),
			formatFloat(p.ConfidenceBToA),
			formatFloat(p.Lift),
		}
		if err := writer.Write(row); err != nil {
			return i, fmt.Errorf("failed to write row: %w", err)
		}
	}
	return len(pairs), nil
}

func writeBundleRows(writer *csv.Writer, bundles []model.BundleResult) (int, error) {
	header := []string{"itemset", "key", "size", "count", "support_pct", "variants", "sample_orders"}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for i, b := range bundles {
		row := []string{
			b.Label,
			b.Key,
			strconv.Itoa(b.Size),
			strconv.Itoa(b.Count),
			formatFloat(b.SupportPct),
			flattenVariants(b.Variants),
			flattenSamples(b.SampleOrders),
		}
		if err := writer.Write(row); err != nil {
			return i, fmt.Errorf("failed to write row: %w", err)
		}
	}
	return len(bundles), nil
}

// writeJSONFile writes the result with an export-info envelope.
func writeJSONFile(path, analysisID string, result *model.AnalysisResult) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	rowCount := len(result.Pairs) + len(result.Bundles)
	envelope := map[string]interface{}{
		"export_info": map[string]interface{}{
			"analysis_id":  analysisID,
			"exported_at":  time.Now().UTC(),
			"record_count": rowCount,
			"mode":         result.Mode,
		},
		"data": result,
	}
	if err := encoder.Encode(envelope); err != nil {
		return 0, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return rowCount, nil
}

func flattenVariants(variants []model.VariantCount) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = fmt.Sprintf("%s=%d", v.Combo, v.Count)
	}
	return strings.Join(parts, "; ")
}

func flattenSamples(samples []model.OrderRef) string {
	parts := make([]string, len(samples))
	for i, s := range samples {
		if s.Date != "" {
			parts[i] = fmt.Sprintf("#%d (%s)", s.ID, s.Date)
		} else {
			parts[i] = fmt.Sprintf("#%d", s.ID)
		}
	}
	return strings.Join(parts, "; ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
