package aggregation

import (
	"testing"
	"time"

	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

func TestDiffDependencies(t *testing.T) {
	prev := manifest.Dependencies{
		manifest.Runtime:     {"a": "1", "b": "1", "c": "1"},
		manifest.Development: {"mocha": "2"},
	}
	next := manifest.Dependencies{
		manifest.Runtime: {"a": "1", "b": "2", "d": "1"},
		manifest.Peer:    {"react": "^16"},
	}

	got := DiffDependencies(prev, next)
	want := []Change{
		{Category: manifest.Runtime, Name: "b", From: "1", To: "2", Kind: ChangeUpdated},
		{Category: manifest.Runtime, Name: "c", From: "1", Kind: ChangeRemoved},
		{Category: manifest.Runtime, Name: "d", To: "1", Kind: ChangeAdded},
		{Category: manifest.Development, Name: "mocha", From: "2", Kind: ChangeRemoved},
		{Category: manifest.Peer, Name: "react", To: "^16", Kind: ChangeAdded},
	}

	if len(got) != len(want) {
		t.Fatalf("DiffDependencies() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDiffDependencies_NilPrevious(t *testing.T) {
	next := manifest.Dependencies{manifest.Runtime: {"a": "1", "b": "2"}}
	got := DiffDependencies(nil, next)
	if len(got) != 2 {
		t.Fatalf("DiffDependencies(nil, next) len = %d, want 2", len(got))
	}
	for _, ch := range got {
		if ch.Kind != ChangeAdded {
			t.Errorf("change %+v, want added", ch)
		}
	}
}

func TestDiffDependencies_Equal(t *testing.T) {
	deps := manifest.Dependencies{manifest.Runtime: {"a": "1"}}
	if got := DiffDependencies(deps, deps); len(got) != 0 {
		t.Fatalf("DiffDependencies(x, x) = %+v, want none", got)
	}
}

func TestAnnotate(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []timeline.Record{
		{File: "a", SHA: "1", Date: base, Dependencies: manifest.Dependencies{manifest.Runtime: {"x": "1"}}},
		{File: "b", SHA: "2", Date: base.Add(time.Hour), Dependencies: manifest.Dependencies{manifest.Runtime: {"y": "1"}}},
		{File: "a", SHA: "3", Date: base.Add(2 * time.Hour), Dependencies: manifest.Dependencies{manifest.Runtime: {"x": "2"}}},
	}

	got := Annotate(records)
	if len(got) != 3 {
		t.Fatalf("Annotate() len = %d, want 3", len(got))
	}
	if !got[0].First || !got[1].First || got[2].First {
		t.Fatalf("First flags = %v %v %v, want true true false", got[0].First, got[1].First, got[2].First)
	}

	added, removed, updated := got[2].Counts()
	if added != 0 || removed != 0 || updated != 1 {
		t.Fatalf("Counts() = %d/%d/%d, want 0/0/1", added, removed, updated)
	}
}

func TestChangeKind_String(t *testing.T) {
	tests := map[ChangeKind]string{
		ChangeAdded:    "added",
		ChangeRemoved:  "removed",
		ChangeUpdated:  "updated",
		ChangeKind(42): "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), got, want)
		}
	}
}
