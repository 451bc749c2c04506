package output

import (
	"fmt"
	"strings"

	"github.com/masmgr/dephistory-go/internal/aggregation"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// MarkdownTimelineWriter writes the timeline as Markdown, one section per file.
type MarkdownTimelineWriter struct{}

// Write outputs the timeline as Markdown.
func (w *MarkdownTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Dependency History")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.Repository)
	if report.Ref != "" {
		fmt.Fprintf(out, "**Ref:** %s\n\n", report.Ref)
	}
	fmt.Fprintf(out, "**Window:** %s\n\n", windowLabel(report.Since, report.Until))
	fmt.Fprintf(out, "**Records:** %d\n\n", len(report.Timeline))

	annotated := aggregation.Annotate(report.Timeline)
	byFile := make(map[string][]aggregation.SnapshotChanges)
	for _, s := range annotated {
		byFile[s.Record.File] = append(byFile[s.Record.File], s)
	}

	for _, path := range timeline.Files(report.Timeline) {
		fmt.Fprintf(out, "## `%s`\n\n", path)
		fmt.Fprintln(out, "| Date | SHA | Author | Change | Category | Package | Version |")
		fmt.Fprintln(out, "|------|-----|--------|--------|----------|---------|---------|")

		for _, s := range byFile[path] {
			rec := s.Record
			prefix := fmt.Sprintf("| %s | `%s` | %s |", rec.Date.Format(reportDateLayout), rec.ShortSHA(), escapeMarkdown(rec.Author))
			if s.First {
				for _, row := range flattenRecord(rec) {
					fmt.Fprintf(out, "%s initial | %s | %s | %s |\n",
						prefix, row.Category.Key(), escapeMarkdown(row.Name), escapeMarkdown(row.Version))
				}
				continue
			}
			for _, ch := range s.Changes {
				fmt.Fprintf(out, "%s %s | %s | %s | %s |\n",
					prefix, ch.Kind, ch.Category.Key(), escapeMarkdown(ch.Name), escapeMarkdown(versionTransition(ch)))
			}
		}
		fmt.Fprintln(out)
	}

	return nil
}

// MarkdownSummaryWriter writes summary reports as Markdown.
type MarkdownSummaryWriter struct{}

// Write outputs the summary report as Markdown.
func (w *MarkdownSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Dependency Change Summary")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.Repository)
	fmt.Fprintf(out, "**Total Files:** %d\n\n", len(report.Summaries))

	fmt.Fprintln(out, "| # | Path | Snapshots | First Seen | Last Changed | Contributors | Packages | Added | Removed | Updated |")
	fmt.Fprintln(out, "|---|------|-----------|------------|--------------|--------------|----------|-------|---------|---------|")
	for i, s := range limitTop(report.Summaries, options.Top) {
		fmt.Fprintf(out, "| %d | `%s` | %d | %s | %s | %d | %d | %d | %d | %d |\n",
			i+1, s.Path, s.SnapshotCount,
			s.FirstSeen.Format(reportDateLayout), s.LastChanged.Format(reportDateLayout),
			s.ContributorCount(), s.CurrentCount(), s.Added, s.Removed, s.Updated)
	}

	return nil
}

func versionTransition(ch aggregation.Change) string {
	switch ch.Kind {
	case aggregation.ChangeAdded:
		return ch.To
	case aggregation.ChangeRemoved:
		return ch.From
	default:
		return ch.From + " -> " + ch.To
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
