// Package timeline turns projected manifest snapshots into the dependency timeline.
package timeline

import (
	"sort"
	"time"

	"github.com/masmgr/dephistory-go/internal/git"
	"github.com/masmgr/dephistory-go/internal/manifest"
)

// Record is one distinct dependency snapshot of a manifest file.
type Record struct {
	File         string                `json:"file"`
	SHA          string                `json:"sha"`
	Author       string                `json:"author"`
	Email        string                `json:"email"`
	Date         time.Time             `json:"date"`
	Message      string                `json:"message"` // subject line of the commit
	Dependencies manifest.Dependencies `json:"dependencies"`
}

// NewRecord builds a record for file at rev. It returns false when the snapshot
// declares no dependencies, since such snapshots never enter the timeline.
func NewRecord(file string, rev git.Revision, deps manifest.Dependencies) (Record, bool) {
	if deps.Empty() {
		return Record{}, false
	}
	return Record{
		File:         file,
		SHA:          rev.SHA,
		Author:       rev.Author.Name,
		Email:        rev.Author.Email,
		Date:         rev.When,
		Message:      rev.Message,
		Dependencies: deps,
	}, true
}

// AuthorInfo returns the author of the revision that introduced the record.
func (r Record) AuthorInfo() git.AuthorInfo {
	return git.AuthorInfo{Name: r.Author, Email: r.Email}
}

// ShortSHA returns the abbreviated revision hash.
func (r Record) ShortSHA() string {
	if len(r.SHA) > 7 {
		return r.SHA[:7]
	}
	return r.SHA
}

// DedupFile orders the records of a single file oldest first and drops every record
// whose dependencies equal those of the record kept just before it. The oldest record
// always survives. records must be in history order, oldest first: records with equal
// dates keep their input order.
func DedupFile(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make([]Record, 0, len(sorted))
	out = append(out, sorted[0])
	for _, rec := range sorted[1:] {
		if rec.Dependencies.Equal(out[len(out)-1].Dependencies) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Merge concatenates per-file sequences in the given order and sorts the result by date.
// Records with equal dates keep their relative order, so ties follow file order.
func Merge(perFile [][]Record) []Record {
	n := 0
	for _, recs := range perFile {
		n += len(recs)
	}
	if n == 0 {
		return []Record{}
	}

	out := make([]Record, 0, n)
	for _, recs := range perFile {
		out = append(out, recs...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Window bounds a timeline by record date. Zero bounds are open.
type Window struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t lies within the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.Since.IsZero() && t.Before(w.Since) {
		return false
	}
	if !w.Until.IsZero() && t.After(w.Until) {
		return false
	}
	return true
}

// Filter returns the records inside w. The input is not modified.
func Filter(records []Record, w Window) []Record {
	if w.Since.IsZero() && w.Until.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if w.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}

// Restrict limits every record to cats. Records left without dependencies are dropped,
// as are records that no longer differ from the previous kept record of the same file.
// An empty cats returns records unchanged.
func Restrict(records []Record, cats []manifest.Category) []Record {
	if len(cats) == 0 {
		return records
	}
	last := make(map[string]manifest.Dependencies)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		deps := rec.Dependencies.Only(cats)
		if deps.Empty() {
			continue
		}
		if prev, ok := last[rec.File]; ok && prev.Equal(deps) {
			continue
		}
		last[rec.File] = deps
		rec.Dependencies = deps
		out = append(out, rec)
	}
	return out
}

// Files returns the distinct files of a timeline in first-appearance order.
func Files(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		if !seen[rec.File] {
			seen[rec.File] = true
			out = append(out, rec.File)
		}
	}
	return out
}

// ByFile groups a timeline by file, keeping the order of each file's records.
func ByFile(records []Record) map[string][]Record {
	out := make(map[string][]Record)
	for _, rec := range records {
		out[rec.File] = append(out[rec.File], rec)
	}
	return out
}
