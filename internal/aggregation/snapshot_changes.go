package aggregation

import (
	"sort"

	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// ChangeKind classifies a package-level difference between two snapshots.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeUpdated
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Change is one package whose declaration differs between two snapshots.
type Change struct {
	Category manifest.Category
	Name     string
	From     string // empty when added
	To       string // empty when removed
	Kind     ChangeKind
}

// DiffDependencies lists the package changes from prev to next, ordered by category
// then package name. A nil prev treats every declared package as added.
func DiffDependencies(prev, next manifest.Dependencies) []Change {
	var changes []Change
	for _, c := range manifest.Categories {
		before, after := prev[c], next[c]

		names := make(map[string]struct{}, len(before)+len(after))
		for name := range before {
			names[name] = struct{}{}
		}
		for name := range after {
			names[name] = struct{}{}
		}
		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)

		for _, name := range sorted {
			from, had := before[name]
			to, has := after[name]
			switch {
			case !had && has:
				changes = append(changes, Change{Category: c, Name: name, To: to, Kind: ChangeAdded})
			case had && !has:
				changes = append(changes, Change{Category: c, Name: name, From: from, Kind: ChangeRemoved})
			case from != to:
				changes = append(changes, Change{Category: c, Name: name, From: from, To: to, Kind: ChangeUpdated})
			}
		}
	}
	return changes
}

// SnapshotChanges is a timeline record together with what it changed relative to the
// previous record of the same file.
type SnapshotChanges struct {
	Record  timeline.Record
	First   bool
	Changes []Change
}

// Counts returns the number of added, removed and updated packages.
func (s SnapshotChanges) Counts() (added, removed, updated int) {
	for _, ch := range s.Changes {
		switch ch.Kind {
		case ChangeAdded:
			added++
		case ChangeRemoved:
			removed++
		case ChangeUpdated:
			updated++
		}
	}
	return added, removed, updated
}

// Annotate pairs every record of a timeline with its changes. The timeline must be in
// date order, as produced by timeline.Merge.
func Annotate(records []timeline.Record) []SnapshotChanges {
	prev := make(map[string]manifest.Dependencies)
	out := make([]SnapshotChanges, 0, len(records))
	for _, rec := range records {
		before, seen := prev[rec.File]
		out = append(out, SnapshotChanges{
			Record:  rec,
			First:   !seen,
			Changes: DiffDependencies(before, rec.Dependencies),
		})
		prev[rec.File] = rec.Dependencies
	}
	return out
}
