package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/masmgr/dephistory-go/internal/git"
	"pgregory.net/rapid"
)

// --- Generators ---

// genBindings draws a newest-first walk over a small content alphabet where an empty
// content marks the path as absent.
func genBindings() *rapid.Generator[[]git.RevisionBinding] {
	return rapid.Custom(func(t *rapid.T) []git.RevisionBinding {
		count := rapid.IntRange(0, 40).Draw(t, "count")
		out := make([]git.RevisionBinding, count)
		for i := 0; i < count; i++ {
			content := rapid.SampledFrom([]string{"", "a", "b", "c"}).Draw(t, fmt.Sprintf("content%d", i))
			rb := git.RevisionBinding{
				Revision: git.Revision{
					SHA:  fmt.Sprintf("c%03d", i),
					When: base.Add(-time.Duration(i) * time.Hour),
				},
				Binding: git.PathBinding{Path: "package.json"},
			}
			if content != "" {
				rb.Binding.ContentID = content
			}
			out[i] = rb
		}
		return out
	})
}

// --- Property Tests ---

func TestRapidExtract_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bindings := genBindings().Draw(t, "bindings")

		first := shas(ExtractAll(bindings))
		second := shas(ExtractAll(bindings))

		if !equalStrings(first, second) {
			t.Fatalf("two runs differ: %v vs %v", first, second)
		}
	})
}

func TestRapidExtract_EmitsContentIntroducers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bindings := genBindings().Draw(t, "bindings")
		got := ExtractAll(bindings)

		// Reference model: the in-scope prefix ends at the first absent binding; a
		// revision is kept iff the next older in-scope binding holds different content
		// or it is the oldest in scope.
		scope := bindings
		for i, rb := range bindings {
			if rb.Binding.NotFound() {
				scope = bindings[:i]
				break
			}
		}
		var want []string
		for i, rb := range scope {
			if i == len(scope)-1 || scope[i+1].Binding.ContentID != rb.Binding.ContentID {
				want = append(want, rb.Revision.SHA)
			}
		}

		if !equalStrings(shas(got), want) {
			t.Fatalf("ExtractAll() = %v, want %v", shas(got), want)
		}
	})
}

func TestRapidExtract_AdjacentOutputsDiffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bindings := genBindings().Draw(t, "bindings")
		got := ExtractAll(bindings)

		content := make(map[string]string, len(bindings))
		for _, rb := range bindings {
			content[rb.Revision.SHA] = rb.Binding.ContentID
		}
		for i := 1; i < len(got); i++ {
			if content[got[i-1].SHA] == content[got[i].SHA] {
				t.Fatalf("adjacent outputs %s and %s share content %q", got[i-1].SHA, got[i].SHA, content[got[i].SHA])
			}
		}
	})
}
