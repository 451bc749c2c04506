package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/masmgr/dephistory-go/internal/aggregation"
	"github.com/masmgr/dephistory-go/internal/analyzer"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// Compile-time interface conformance checks.
var (
	_ TimelineWriter = (*JSONTimelineWriter)(nil)
	_ TimelineWriter = (*CSVTimelineWriter)(nil)
	_ TimelineWriter = (*ConsoleTimelineWriter)(nil)
	_ TimelineWriter = (*MarkdownTimelineWriter)(nil)
	_ TimelineWriter = (*CITimelineWriter)(nil)
	_ TimelineWriter = (*YAMLTimelineWriter)(nil)

	_ SummaryWriter = (*JSONSummaryWriter)(nil)
	_ SummaryWriter = (*CSVSummaryWriter)(nil)
	_ SummaryWriter = (*ConsoleSummaryWriter)(nil)
	_ SummaryWriter = (*MarkdownSummaryWriter)(nil)
	_ SummaryWriter = (*YAMLSummaryWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatConsole  OutputFormat = "console"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
	FormatNDJSON   OutputFormat = "ndjson"
	FormatYAML     OutputFormat = "yaml"
)

// Formats lists the accepted format names.
var Formats = []OutputFormat{FormatJSON, FormatCSV, FormatConsole, FormatMarkdown, FormatNDJSON, FormatCI, FormatYAML}

// ParseFormat resolves a format name. An empty name selects JSON.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "console", "text", "table":
		return FormatConsole, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "ci":
		return FormatCI, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	// Out receives the report when OutputPath is empty. Defaults to os.Stdout.
	Out io.Writer
}

// TimelineReport holds the result of a dependency history analysis.
type TimelineReport struct {
	Repository  string
	Ref         string
	Since       *time.Time
	Until       *time.Time
	GeneratedAt time.Time
	Timeline    []timeline.Record
	Files       []analyzer.FileReport
}

// SummaryReport holds per-file change summaries.
type SummaryReport struct {
	Repository  string
	Ref         string
	GeneratedAt time.Time
	Summaries   []*aggregation.FileSummary
}

// TimelineWriter writes timeline reports.
type TimelineWriter interface {
	Write(report *TimelineReport, options OutputOptions) error
}

// SummaryWriter writes summary reports.
type SummaryWriter interface {
	Write(report *SummaryReport, options OutputOptions) error
}

// NewTimelineWriter creates a timeline writer for the specified format.
func NewTimelineWriter(format OutputFormat) TimelineWriter {
	switch format {
	case FormatCSV:
		return &CSVTimelineWriter{}
	case FormatConsole:
		return &ConsoleTimelineWriter{}
	case FormatMarkdown:
		return &MarkdownTimelineWriter{}
	case FormatCI, FormatNDJSON:
		return &CITimelineWriter{}
	case FormatYAML:
		return &YAMLTimelineWriter{}
	default:
		return &JSONTimelineWriter{}
	}
}

// NewSummaryWriter creates a summary writer for the specified format.
func NewSummaryWriter(format OutputFormat) SummaryWriter {
	switch format {
	case FormatJSON, FormatCI, FormatNDJSON:
		return &JSONSummaryWriter{}
	case FormatCSV:
		return &CSVSummaryWriter{}
	case FormatMarkdown:
		return &MarkdownSummaryWriter{}
	case FormatYAML:
		return &YAMLSummaryWriter{}
	default:
		return &ConsoleSummaryWriter{}
	}
}
