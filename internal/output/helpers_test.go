package output

import (
	"fmt"
	"testing"
	"time"

	"github.com/masmgr/dephistory-go/internal/aggregation"
	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

func TestTruncateMessage_Output(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		maxLen   int
		expected string
	}{
		{name: "Short message", msg: "hello", maxLen: 40, expected: "hello"},
		{name: "Exact length", msg: "1234567890", maxLen: 10, expected: "1234567890"},
		{name: "Over max length", msg: "a very long message here", maxLen: 10, expected: "a very ..."},
		{name: "Empty message", msg: "", maxLen: 40, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateMessage(tt.msg, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateMessage(%q, %d) = %q, expected %q", tt.msg, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Pipe", input: "^1.0 || ^2.0", expected: "^1.0 \\|\\| ^2.0"},
		{name: "Asterisk", input: "*", expected: "\\*"},
		{name: "Underscore", input: "a_b", expected: "a\\_b"},
		{name: "No specials", input: "lodash", expected: "lodash"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdown(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLimitTop(t *testing.T) {
	items := []int{1, 2, 3}
	if got := limitTop(items, 0); len(got) != 3 {
		t.Errorf("limitTop(0) len = %d, expected 3", len(got))
	}
	if got := limitTop(items, 2); len(got) != 2 {
		t.Errorf("limitTop(2) len = %d, expected 2", len(got))
	}
	if got := limitTop(items, 10); len(got) != 3 {
		t.Errorf("limitTop(10) len = %d, expected 3", len(got))
	}
}

func TestWindowLabel(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		since, until *time.Time
		expected     string
	}{
		{"Open", nil, nil, "full history"},
		{"Since", &since, nil, "since 2020-01-01"},
		{"Until", nil, &until, "until 2021-01-01"},
		{"Both", &since, &until, "2020-01-01 to 2021-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := windowLabel(tt.since, tt.until); got != tt.expected {
				t.Errorf("windowLabel() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFlattenRecord(t *testing.T) {
	rec := timeline.Record{Dependencies: manifest.Dependencies{
		manifest.Bundled: {"z": "1"},
		manifest.Runtime: {"b": "2", "a": "1"},
	}}

	rows := flattenRecord(rec)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.Category.Key() + ":" + r.Name + "@" + r.Version
	}
	want := []string{"dependencies:a@1", "dependencies:b@2", "bundledDependencies:z@1"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("flattenRecord() = %v, expected %v", got, want)
	}
}

func TestChangeSummary(t *testing.T) {
	tests := []struct {
		name     string
		s        aggregation.SnapshotChanges
		expected string
	}{
		{"First", aggregation.SnapshotChanges{First: true}, "initial"},
		{"NoChanges", aggregation.SnapshotChanges{}, "="},
		{"Mixed", aggregation.SnapshotChanges{Changes: []aggregation.Change{
			{Kind: aggregation.ChangeAdded},
			{Kind: aggregation.ChangeAdded},
			{Kind: aggregation.ChangeUpdated},
		}}, "+2 ~1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := changeSummary(tt.s); got != tt.expected {
				t.Errorf("changeSummary() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
