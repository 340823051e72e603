/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: events.go
Description: Structured log events emitted while generating declarations.
*/

package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// LogDocument logs a generated document
func LogDocument(log logrus.FieldLogger, path, record string, declarations, ambiguities int, duration time.Duration) {
	log.WithFields(logrus.Fields{
		"source":       path,
		"record":       record,
		"declarations": declarations,
		"ambiguities":  ambiguities,
		"duration":     duration,
	}).Info("Generated declarations")
}

// LogAmbiguity logs an array that fell back to an untyped sequence
func LogAmbiguity(log logrus.FieldLogger, path, field, reason string) {
	log.WithFields(logrus.Fields{
		"path":   path,
		"field":  field,
		"reason": reason,
	}).Warn("Array typed as untyped sequence")
}

// LogSkipped logs a source dropped from the run
func LogSkipped(log logrus.FieldLogger, path string, err error) {
	log.WithFields(logrus.Fields{
		"source": path,
		"error":  err,
	}).Warn("Skipped invalid input")
}

// LogRun logs the summary of a whole run
func LogRun(log logrus.FieldLogger, runID string, files, skipped, declarations int, duration time.Duration) {
	log.WithFields(logrus.Fields{
		"run_id":       runID,
		"files":        files,
		"skipped":      skipped,
		"declarations": declarations,
		"duration":     duration,
	}).Info("Run complete")
}
