package output

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/masmgr/dephistory-go/internal/aggregation"
	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02T15:04:05"
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func windowLabel(since, until *time.Time) string {
	switch {
	case since != nil && until != nil:
		return since.Format(reportDateLayout) + " to " + until.Format(reportDateLayout)
	case since != nil:
		return "since " + since.Format(reportDateLayout)
	case until != nil:
		return "until " + until.Format(reportDateLayout)
	default:
		return "full history"
	}
}

func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.OutputPath == "" {
		if options.Out != nil {
			return options.Out, nil, nil
		}
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// packageRow is one declared package of a record, the unit of flattened formats.
type packageRow struct {
	Category manifest.Category
	Name     string
	Version  string
}

// flattenRecord lists the packages of a record by category, then name.
func flattenRecord(rec timeline.Record) []packageRow {
	var rows []packageRow
	for _, c := range rec.Dependencies.Present() {
		pkgs := rec.Dependencies[c]
		for _, name := range pkgs.Names() {
			rows = append(rows, packageRow{Category: c, Name: name, Version: pkgs[name]})
		}
	}
	return rows
}

func changeSummary(s aggregation.SnapshotChanges) string {
	if s.First {
		return "initial"
	}
	added, removed, updated := s.Counts()
	var parts []string
	if added > 0 {
		parts = append(parts, "+"+strconv.Itoa(added))
	}
	if removed > 0 {
		parts = append(parts, "-"+strconv.Itoa(removed))
	}
	if updated > 0 {
		parts = append(parts, "~"+strconv.Itoa(updated))
	}
	if len(parts) == 0 {
		return "="
	}
	return strings.Join(parts, " ")
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}
