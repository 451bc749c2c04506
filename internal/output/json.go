package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/masmgr/dephistory-go/internal/aggregation"
	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// JSONTimelineWriter writes the timeline as a JSON array of records.
type JSONTimelineWriter struct{}

// JSONRecord is the JSON and YAML output structure of one timeline record. The
// dependency categories keep their manifest field names.
type JSONRecord struct {
	File                 string            `json:"file" yaml:"file"`
	SHA                  string            `json:"sha" yaml:"sha"`
	Author               string            `json:"author" yaml:"author"`
	Email                string            `json:"email" yaml:"email"`
	Date                 string            `json:"date" yaml:"date"`
	Dependencies         manifest.Packages `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies      manifest.Packages `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	OptionalDependencies manifest.Packages `json:"optionalDependencies,omitempty" yaml:"optionalDependencies,omitempty"`
	PeerDependencies     manifest.Packages `json:"peerDependencies,omitempty" yaml:"peerDependencies,omitempty"`
	BundledDependencies  manifest.Packages `json:"bundledDependencies,omitempty" yaml:"bundledDependencies,omitempty"`
}

func toJSONRecord(rec timeline.Record) JSONRecord {
	return JSONRecord{
		File:                 rec.File,
		SHA:                  rec.SHA,
		Author:               rec.Author,
		Email:                rec.Email,
		Date:                 rec.Date.UTC().Format(time.RFC3339),
		Dependencies:         rec.Dependencies[manifest.Runtime],
		DevDependencies:      rec.Dependencies[manifest.Development],
		OptionalDependencies: rec.Dependencies[manifest.Optional],
		PeerDependencies:     rec.Dependencies[manifest.Peer],
		BundledDependencies:  rec.Dependencies[manifest.Bundled],
	}
}

func toJSONRecords(records []timeline.Record) []JSONRecord {
	out := make([]JSONRecord, len(records))
	for i, rec := range records {
		out[i] = toJSONRecord(rec)
	}
	return out
}

// Write outputs the timeline as indented JSON.
func (w *JSONTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	data, err := json.MarshalIndent(toJSONRecords(report.Timeline), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

// JSONSummaryWriter writes summary reports as JSON.
type JSONSummaryWriter struct{}

// JSONSummaryReport is the JSON and YAML output structure for summaries.
type JSONSummaryReport struct {
	Repository  string            `json:"repo" yaml:"repo"`
	Ref         string            `json:"ref,omitempty" yaml:"ref,omitempty"`
	GeneratedAt string            `json:"generatedAt" yaml:"generatedAt"`
	TotalFiles  int               `json:"totalFiles" yaml:"totalFiles"`
	Files       []JSONFileSummary `json:"files" yaml:"files"`
}

// JSONFileSummary is the output structure of one file summary.
type JSONFileSummary struct {
	Path           string  `json:"path" yaml:"path"`
	Snapshots      int     `json:"snapshots" yaml:"snapshots"`
	FirstSeen      string  `json:"firstSeen" yaml:"firstSeen"`
	LastChanged    string  `json:"lastChanged" yaml:"lastChanged"`
	Contributors   int     `json:"contributors" yaml:"contributors"`
	OwnershipRatio float64 `json:"ownershipRatio" yaml:"ownershipRatio"`
	PackagesEver   int     `json:"packagesEver" yaml:"packagesEver"`
	CurrentCount   int     `json:"currentPackages" yaml:"currentPackages"`
	Added          int     `json:"added" yaml:"added"`
	Removed        int     `json:"removed" yaml:"removed"`
	Updated        int     `json:"updated" yaml:"updated"`
}

func toJSONSummaryReport(report *SummaryReport, options OutputOptions) JSONSummaryReport {
	summaries := limitTop(report.Summaries, options.Top)
	files := make([]JSONFileSummary, len(summaries))
	for i, s := range summaries {
		files[i] = toJSONFileSummary(s)
	}
	return JSONSummaryReport{
		Repository:  report.Repository,
		Ref:         report.Ref,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalFiles:  len(report.Summaries),
		Files:       files,
	}
}

func toJSONFileSummary(s *aggregation.FileSummary) JSONFileSummary {
	return JSONFileSummary{
		Path:           s.Path,
		Snapshots:      s.SnapshotCount,
		FirstSeen:      s.FirstSeen.UTC().Format(time.RFC3339),
		LastChanged:    s.LastChanged.UTC().Format(time.RFC3339),
		Contributors:   s.ContributorCount(),
		OwnershipRatio: s.OwnershipRatio(),
		PackagesEver:   len(s.PackagesEver),
		CurrentCount:   s.CurrentCount(),
		Added:          s.Added,
		Removed:        s.Removed,
		Updated:        s.Updated,
	}
}

// Write outputs the summary report as JSON.
func (w *JSONSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	data, err := json.MarshalIndent(toJSONSummaryReport(report, options), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
