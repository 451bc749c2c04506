package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// CSVTimelineWriter writes the timeline flattened to one row per declared package.
type CSVTimelineWriter struct{}

// Write outputs the timeline as CSV with the columns
// file, sha, author, email, date, type, name, version.
func (w *CSVTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"file", "sha", "author", "email", "date", "type", "name", "version"}); err != nil {
		return err
	}

	for _, rec := range report.Timeline {
		date := rec.Date.UTC().Format(time.RFC3339)
		for _, row := range flattenRecord(rec) {
			if err := writer.Write([]string{
				rec.File,
				rec.SHA,
				rec.Author,
				rec.Email,
				date,
				row.Category.Key(),
				row.Name,
				row.Version,
			}); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVSummaryWriter writes summary reports as CSV.
type CSVSummaryWriter struct{}

// Write outputs the summary report as CSV.
func (w *CSVSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"Path", "Snapshots", "FirstSeen", "LastChanged", "Contributors",
		"OwnershipRatio", "PackagesEver", "CurrentPackages", "Added", "Removed", "Updated"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, s := range limitTop(report.Summaries, options.Top) {
		row := []string{
			s.Path,
			fmt.Sprintf("%d", s.SnapshotCount),
			s.FirstSeen.Format(reportDateTimeLayout),
			s.LastChanged.Format(reportDateTimeLayout),
			fmt.Sprintf("%d", s.ContributorCount()),
			fmt.Sprintf("%.6f", s.OwnershipRatio()),
			fmt.Sprintf("%d", len(s.PackagesEver)),
			fmt.Sprintf("%d", s.CurrentCount()),
			fmt.Sprintf("%d", s.Added),
			fmt.Sprintf("%d", s.Removed),
			fmt.Sprintf("%d", s.Updated),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(options OutputOptions) (*csv.Writer, *os.File, error) {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(out), file, nil
}
