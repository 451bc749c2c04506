package manifest

import (
	"encoding/json"
	"maps"
	"sort"
)

// Packages maps a package name to its declared version specifier.
type Packages map[string]string

// Names returns the package names in lexical order.
func (p Packages) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies is the projected dependency data of one manifest snapshot.
// Categories without packages are never stored.
type Dependencies map[Category]Packages

// Empty reports whether no category declares any package.
func (d Dependencies) Empty() bool {
	for _, pkgs := range d {
		if len(pkgs) > 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both projections declare the same packages with the same
// versions in every category, regardless of declaration order.
func (d Dependencies) Equal(other Dependencies) bool {
	for _, c := range Categories {
		if !maps.Equal(d[c], other[c]) {
			return false
		}
	}
	return true
}

// Only returns the projection restricted to cats. An empty cats keeps every category.
func (d Dependencies) Only(cats []Category) Dependencies {
	if len(cats) == 0 {
		return d
	}
	out := make(Dependencies, len(cats))
	for _, c := range cats {
		if len(d[c]) > 0 {
			out[c] = d[c]
		}
	}
	return out
}

// Count returns the number of declared packages across categories.
func (d Dependencies) Count() int {
	n := 0
	for _, pkgs := range d {
		n += len(pkgs)
	}
	return n
}

// Present returns the non-empty categories in manifest order.
func (d Dependencies) Present() []Category {
	var out []Category
	for _, c := range Categories {
		if len(d[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// ByKey returns the projection keyed by manifest field name.
func (d Dependencies) ByKey() map[string]Packages {
	out := make(map[string]Packages, len(d))
	for _, c := range d.Present() {
		out[c.Key()] = d[c]
	}
	return out
}

// MarshalJSON renders the projection with the manifest field names as keys.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ByKey())
}
