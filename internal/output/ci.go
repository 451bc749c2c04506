package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CITimelineWriter writes the timeline as NDJSON (one JSON object per line) for CI pipelines.
type CITimelineWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type             string `json:"type"`
	Repository       string `json:"repo"`
	TotalFiles       int    `json:"totalFiles"`
	TotalRecords     int    `json:"totalRecords"`
	TruncatedFiles   int    `json:"truncatedFiles"`
	SkippedSnapshots int    `json:"skippedSnapshots"`
}

// CIRecordEntry represents a single timeline record in CI output.
type CIRecordEntry struct {
	Type string `json:"type"`
	JSONRecord
}

// Write outputs the timeline as NDJSON.
func (w *CITimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:         "summary",
		Repository:   report.Repository,
		TotalFiles:   len(report.Files),
		TotalRecords: len(report.Timeline),
	}
	for _, f := range report.Files {
		if f.Truncated {
			summary.TruncatedFiles++
		}
		summary.SkippedSnapshots += f.Skipped
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, rec := range report.Timeline {
		if err := writeNDJSONLine(out, CIRecordEntry{Type: "record", JSONRecord: toJSONRecord(rec)}); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
