package timeline

import (
	"testing"
	"time"

	"github.com/masmgr/dephistory-go/internal/git"
	"github.com/masmgr/dephistory-go/internal/manifest"
)

var base = time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(file, sha string, hours int, deps manifest.Dependencies) Record {
	return Record{File: file, SHA: sha, Date: base.Add(time.Duration(hours) * time.Hour), Dependencies: deps}
}

func runtime(pkgs ...string) manifest.Dependencies {
	p := make(manifest.Packages)
	for i := 0; i+1 < len(pkgs); i += 2 {
		p[pkgs[i]] = pkgs[i+1]
	}
	return manifest.Dependencies{manifest.Runtime: p}
}

func shas(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SHA
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewRecord(t *testing.T) {
	rev := git.Revision{
		SHA:    "0123456789abcdef",
		When:   base,
		Author: git.AuthorInfo{Name: "Ada", Email: "ada@example.com"},
	}

	r, ok := NewRecord("package.json", rev, runtime("a", "1"))
	if !ok {
		t.Fatalf("NewRecord() dropped a non-empty snapshot")
	}
	if r.SHA != rev.SHA || r.Author != "Ada" || r.Email != "ada@example.com" || !r.Date.Equal(base) {
		t.Fatalf("NewRecord() = %+v", r)
	}
	if r.ShortSHA() != "0123456" {
		t.Fatalf("ShortSHA() = %q", r.ShortSHA())
	}

	if _, ok := NewRecord("package.json", rev, manifest.Dependencies{}); ok {
		t.Fatalf("NewRecord() kept an empty snapshot")
	}
	if _, ok := NewRecord("package.json", rev, manifest.Dependencies{manifest.Peer: {}}); ok {
		t.Fatalf("NewRecord() kept a snapshot with only empty categories")
	}
}

func TestDedupFile(t *testing.T) {
	tests := []struct {
		name  string
		input []Record
		want  []string
	}{
		{
			name:  "Empty",
			input: nil,
			want:  []string{},
		},
		{
			name: "FormattingOnlyChangeCollapsed",
			input: []Record{
				rec("p", "C", 2, runtime("a", "2")),
				rec("p", "B", 1, runtime("a", "1")),
				rec("p", "A", 0, runtime("a", "1")),
			},
			want: []string{"A", "C"},
		},
		{
			name: "RevertKept",
			input: []Record{
				rec("p", "A", 0, runtime("a", "1")),
				rec("p", "B", 1, runtime("a", "2")),
				rec("p", "C", 2, runtime("a", "1")),
			},
			want: []string{"A", "B", "C"},
		},
		{
			name: "OrderInsensitiveEquality",
			input: []Record{
				rec("p", "A", 0, runtime("a", "1", "b", "2")),
				rec("p", "B", 1, runtime("b", "2", "a", "1")),
			},
			want: []string{"A"},
		},
		{
			name: "CategoryMoveIsAChange",
			input: []Record{
				rec("p", "A", 0, runtime("a", "1")),
				rec("p", "B", 1, manifest.Dependencies{manifest.Development: {"a": "1"}}),
			},
			want: []string{"A", "B"},
		},
		{
			name: "EqualDatesKeepInputOrder",
			input: []Record{
				rec("p", "X", 0, runtime("a", "1")),
				rec("p", "Y", 0, runtime("a", "2")),
			},
			want: []string{"X", "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shas(DedupFile(tt.input))
			if !equalStrings(got, tt.want) {
				t.Fatalf("DedupFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupFile_DoesNotModifyInput(t *testing.T) {
	input := []Record{
		rec("p", "B", 1, runtime("a", "1")),
		rec("p", "A", 0, runtime("a", "1")),
	}
	DedupFile(input)
	if input[0].SHA != "B" || input[1].SHA != "A" {
		t.Fatalf("DedupFile() reordered its input: %v", shas(input))
	}
}

func TestMerge(t *testing.T) {
	fileA := []Record{
		rec("a/package.json", "a1", 0, runtime("x", "1")),
		rec("a/package.json", "a2", 3, runtime("x", "2")),
	}
	fileB := []Record{
		rec("b/bower.json", "b1", 1, runtime("y", "1")),
		rec("b/bower.json", "b2", 3, runtime("y", "2")),
	}

	got := shas(Merge([][]Record{fileA, fileB}))
	want := []string{"a1", "b1", "a2", "b2"}
	if !equalStrings(got, want) {
		t.Fatalf("Merge() = %v, want %v", got, want)
	}

	got = shas(Merge([][]Record{fileB, fileA}))
	want = []string{"a1", "b1", "b2", "a2"}
	if !equalStrings(got, want) {
		t.Fatalf("Merge() with swapped discovery order = %v, want %v", got, want)
	}

	if empty := Merge(nil); empty == nil || len(empty) != 0 {
		t.Fatalf("Merge(nil) = %#v, want empty non-nil slice", empty)
	}
}

func TestFilter(t *testing.T) {
	records := []Record{
		rec("p", "A", 0, runtime("a", "1")),
		rec("p", "B", 24, runtime("a", "2")),
		rec("p", "C", 48, runtime("a", "3")),
	}

	tests := []struct {
		name   string
		window Window
		want   []string
	}{
		{"Open", Window{}, []string{"A", "B", "C"}},
		{"Since", Window{Since: base.Add(24 * time.Hour)}, []string{"B", "C"}},
		{"Until", Window{Until: base.Add(24 * time.Hour)}, []string{"A", "B"}},
		{"Both", Window{Since: base.Add(time.Hour), Until: base.Add(47 * time.Hour)}, []string{"B"}},
		{"NoneInside", Window{Since: base.Add(100 * time.Hour)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shas(Filter(records, tt.window))
			if !equalStrings(got, tt.want) {
				t.Fatalf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilesAndByFile(t *testing.T) {
	records := []Record{
		rec("b", "1", 0, runtime("a", "1")),
		rec("a", "2", 1, runtime("a", "1")),
		rec("b", "3", 2, runtime("a", "2")),
	}

	files := Files(records)
	if !equalStrings(files, []string{"b", "a"}) {
		t.Fatalf("Files() = %v", files)
	}

	grouped := ByFile(records)
	if got := shas(grouped["b"]); !equalStrings(got, []string{"1", "3"}) {
		t.Fatalf("ByFile()[b] = %v", got)
	}
}

func TestRestrict(t *testing.T) {
	both := func(rt, dev string) manifest.Dependencies {
		return manifest.Dependencies{
			manifest.Runtime:     {"a": rt},
			manifest.Development: {"mocha": dev},
		}
	}
	records := []Record{
		rec("p", "A", 0, runtime("a", "1")),
		rec("q", "B", 1, both("1", "9")),
		rec("p", "C", 2, both("1", "10")),
		rec("q", "D", 3, both("2", "9")),
		rec("p", "E", 4, both("2", "10")),
	}

	tests := []struct {
		name string
		cats []manifest.Category
		want []string
	}{
		{"All", nil, []string{"A", "B", "C", "D", "E"}},
		{"Runtime", []manifest.Category{manifest.Runtime}, []string{"A", "B", "D", "E"}},
		{"Development", []manifest.Category{manifest.Development}, []string{"B", "C"}},
		{"Peer", []manifest.Category{manifest.Peer}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Restrict(records, tt.cats)
			if !equalStrings(shas(got), tt.want) {
				t.Fatalf("Restrict() = %v, want %v", shas(got), tt.want)
			}
			for _, r := range got {
				if len(tt.cats) == 1 && len(r.Dependencies) != 1 {
					t.Fatalf("record %s kept %v, want only %v", r.SHA, r.Dependencies.Present(), tt.cats)
				}
			}
		})
	}
}

func TestRecord_AuthorInfo(t *testing.T) {
	r := Record{Author: "Alice", Email: "Alice@Example.com"}
	if got := r.AuthorInfo().ContributorKey(); got != "alice@example.com" {
		t.Fatalf("ContributorKey() = %q, want %q", got, "alice@example.com")
	}
}
