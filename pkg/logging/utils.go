/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Log file management: naming, retention and statistics for the log
directory.
*/

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const logFilePrefix = "structgen_"

func logFileName(t time.Time) string {
	return fmt.Sprintf("%s%s.log", logFilePrefix, t.Format("2006-01-02_15-04-05"))
}

// listLogs returns the log files in dir, oldest first
func listLogs(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob log files: %w", err)
	}

	modTimes := make(map[string]time.Time, len(files))
	for _, f := range files {
		if stat, err := os.Stat(f); err == nil {
			modTimes[f] = stat.ModTime()
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		if modTimes[files[i]].Equal(modTimes[files[j]]) {
			return files[i] < files[j]
		}
		return modTimes[files[i]].Before(modTimes[files[j]])
	})
	return files, nil
}

// PruneLogs removes the oldest log files in dir so that at most keep remain. It
// returns the removed paths.
func PruneLogs(dir string, keep int) ([]string, error) {
	files, err := listLogs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) <= keep {
		return nil, nil
	}

	var removed []string
	for _, f := range files[:len(files)-keep] {
		if err := os.Remove(f); err != nil {
			return removed, fmt.Errorf("failed to remove file %s: %w", f, err)
		}
		removed = append(removed, f)
	}
	return removed, nil
}

// LogStats holds statistics about log files
type LogStats struct {
	TotalFiles int       `json:"total_files"`
	TotalSize  int64     `json:"total_size"`
	OldestFile time.Time `json:"oldest_file"`
	NewestFile time.Time `json:"newest_file"`
}

// GetLogStats returns statistics about the log files in dir
func GetLogStats(dir string) (*LogStats, error) {
	files, err := listLogs(dir)
	if err != nil {
		return nil, err
	}

	stats := &LogStats{TotalFiles: len(files)}
	for _, f := range files {
		stat, err := os.Stat(f)
		if err != nil {
			continue
		}
		stats.TotalSize += stat.Size()
		if stats.OldestFile.IsZero() || stat.ModTime().Before(stats.OldestFile) {
			stats.OldestFile = stat.ModTime()
		}
		if stat.ModTime().After(stats.NewestFile) {
			stats.NewestFile = stat.ModTime()
		}
	}
	return stats, nil
}
