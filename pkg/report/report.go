/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Run reports for generation runs. A report lists every processed source with
the declarations it produced and the arrays that fell back to untyped sequences, plus the
sources that were skipped. Reports are written as timestamped, versioned JSON files.
*/

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunReport summarizes one generation run
type RunReport struct {
	RunID        string          `json:"run_id"`
	Version      string          `json:"version"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Duration     string          `json:"duration"`
	Output       string          `json:"output,omitempty"`
	Declarations int             `json:"declarations"`
	Ambiguities  int             `json:"ambiguities"`
	Files        []FileReport    `json:"files"`
	Skipped      []SkippedReport `json:"skipped,omitempty"`
}

// FileReport describes one generated source
type FileReport struct {
	Source       string            `json:"source"`
	Record       string            `json:"record"`
	Declarations []string          `json:"declarations"`
	Ambiguities  []AmbiguityReport `json:"ambiguities,omitempty"`
	Duration     string            `json:"duration"`
}

// AmbiguityReport is one array typed as an untyped sequence
type AmbiguityReport struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// SkippedReport is one source dropped from the run
type SkippedReport struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// FileName returns the report file name: 2024-06-11_01-30-00_generate_v1.0.0_1a2b3c4d.json
func (r *RunReport) FileName() string {
	id := r.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_generate_v%s_%s.json", r.StartTime.Format("2006-01-02_15-04-05"), r.Version, id)
}

// Write stores the report under dir and returns the file path
func Write(dir string, r *RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// Read loads a report written by Write
func Read(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}
