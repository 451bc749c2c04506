package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/dephistory-go/internal/aggregation"
)

// ConsoleTimelineWriter writes the timeline as a table to the console.
type ConsoleTimelineWriter struct{}

// Write outputs the timeline with a per-record change summary.
func (w *ConsoleTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Dependency History")
	fmt.Fprintf(out, "Repository: %s\n", report.Repository)
	if report.Ref != "" {
		fmt.Fprintf(out, "Ref: %s\n", report.Ref)
	}
	fmt.Fprintf(out, "Window: %s\n", windowLabel(report.Since, report.Until))
	fmt.Fprintf(out, "Files: %d, Records: %d\n\n", len(report.Files), len(report.Timeline))

	if len(report.Timeline) == 0 {
		fmt.Fprintln(out, "No dependency changes found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDate\tSHA\tFile\tAuthor\tPackages\tChanges\tMessage")

	for i, s := range aggregation.Annotate(report.Timeline) {
		rec := s.Record
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			i+1,
			rec.Date.Format(reportDateLayout),
			rec.ShortSHA(),
			rec.File,
			truncateMessage(rec.Author, 24),
			rec.Dependencies.Count(),
			changeColor(s)(changeSummary(s)),
			truncateMessage(rec.Message, 50),
		)
	}

	return tw.Flush()
}

// ConsoleSummaryWriter writes summary reports to the console.
type ConsoleSummaryWriter struct{}

// Write outputs the summary report to the console.
func (w *ConsoleSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Dependency Change Summary")
	fmt.Fprintf(out, "Repository: %s\n", report.Repository)
	fmt.Fprintf(out, "Total files: %d\n\n", len(report.Summaries))

	if len(report.Summaries) == 0 {
		fmt.Fprintln(out, "No dependency changes found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPath\tSnapshots\tFirst Seen\tLast Changed\tContributors\tPackages\tAdded\tRemoved\tUpdated")

	for i, s := range limitTop(report.Summaries, options.Top) {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			i+1,
			s.Path,
			s.SnapshotCount,
			s.FirstSeen.Format(reportDateLayout),
			s.LastChanged.Format(reportDateLayout),
			s.ContributorCount(),
			s.CurrentCount(),
			s.Added,
			s.Removed,
			s.Updated,
		)
	}

	return tw.Flush()
}

func changeColor(s aggregation.SnapshotChanges) func(string, ...interface{}) string {
	if s.First {
		return color.CyanString
	}
	added, removed, _ := s.Counts()
	switch {
	case removed > 0:
		return color.RedString
	case added > 0:
		return color.GreenString
	default:
		return color.YellowString
	}
}
