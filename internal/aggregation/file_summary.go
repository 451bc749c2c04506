// Package aggregation derives per-file statistics from a dependency timeline.
package aggregation

import (
	"sort"
	"time"

	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// FileSummary holds aggregated dependency history for a single manifest file.
type FileSummary struct {
	Path                    string
	SnapshotCount           int
	FirstSeen               time.Time
	LastChanged             time.Time
	Contributors            map[string]struct{}
	ContributorChangeCounts map[string]int
	PackagesEver            map[string]struct{}
	Current                 manifest.Dependencies
	Added                   int
	Removed                 int
	Updated                 int
}

// NewFileSummary creates an empty summary for path.
func NewFileSummary(path string) *FileSummary {
	return &FileSummary{
		Path:                    path,
		Contributors:            make(map[string]struct{}),
		ContributorChangeCounts: make(map[string]int),
		PackagesEver:            make(map[string]struct{}),
	}
}

// ContributorCount returns number of unique contributors.
func (f *FileSummary) ContributorCount() int {
	return len(f.Contributors)
}

// ChangeTotal returns the number of package-level changes after the first snapshot.
func (f *FileSummary) ChangeTotal() int {
	return f.Added + f.Removed + f.Updated
}

// OwnershipRatio returns the share of snapshots introduced by the top contributor.
func (f *FileSummary) OwnershipRatio() float64 {
	if f.SnapshotCount == 0 || len(f.ContributorChangeCounts) == 0 {
		return 1.0
	}

	maxChanges := 0
	for _, count := range f.ContributorChangeCounts {
		if count > maxChanges {
			maxChanges = count
		}
	}
	return float64(maxChanges) / float64(f.SnapshotCount)
}

// CurrentCount returns the number of packages declared in the newest snapshot.
func (f *FileSummary) CurrentCount() int {
	return f.Current.Count()
}

// AddSnapshot folds one annotated record into the summary. Records must arrive in
// date order.
func (f *FileSummary) AddSnapshot(s SnapshotChanges) {
	rec := s.Record
	f.SnapshotCount++

	if f.FirstSeen.IsZero() || rec.Date.Before(f.FirstSeen) {
		f.FirstSeen = rec.Date
	}
	if rec.Date.After(f.LastChanged) {
		f.LastChanged = rec.Date
	}

	key := rec.AuthorInfo().ContributorKey()
	f.Contributors[key] = struct{}{}
	f.ContributorChangeCounts[key]++

	for _, c := range rec.Dependencies.Present() {
		for name := range rec.Dependencies[c] {
			f.PackagesEver[name] = struct{}{}
		}
	}
	f.Current = rec.Dependencies

	if s.First {
		return
	}
	added, removed, updated := s.Counts()
	f.Added += added
	f.Removed += removed
	f.Updated += updated
}

// Summarize aggregates a date-ordered timeline into one summary per file, ordered by
// the file's first appearance.
func Summarize(records []timeline.Record) []*FileSummary {
	byPath := make(map[string]*FileSummary)
	var order []string
	for _, s := range Annotate(records) {
		fs, ok := byPath[s.Record.File]
		if !ok {
			fs = NewFileSummary(s.Record.File)
			byPath[s.Record.File] = fs
			order = append(order, s.Record.File)
		}
		fs.AddSnapshot(s)
	}

	out := make([]*FileSummary, 0, len(order))
	for _, path := range order {
		out = append(out, byPath[path])
	}
	return out
}

// SortByChurn orders summaries by total package changes, most active first. Ties keep
// path order.
func SortByChurn(summaries []*FileSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].ChangeTotal() != summaries[j].ChangeTotal() {
			return summaries[i].ChangeTotal() > summaries[j].ChangeTotal()
		}
		return summaries[i].Path < summaries[j].Path
	})
}
