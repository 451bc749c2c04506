// Package manifest projects package.json and bower.json snapshots onto the five
// declared dependency categories.
package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformedManifest is returned when a snapshot is not a JSON object.
var ErrMalformedManifest = errors.New("malformed manifest")

// ParseError reports a snapshot that could not be projected.
type ParseError struct {
	Path     string
	Revision string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Revision == "" {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse %s @ %s: %v", e.Path, e.Revision, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Project parses a manifest snapshot and extracts its dependency categories. Versions
// are kept verbatim; non-string version values keep their raw JSON text. A result with
// no category is Empty, not an error.
func Project(buf []byte) (Dependencies, error) {
	buf = bytes.TrimPrefix(buf, utf8BOM)
	if !gjson.ValidBytes(buf) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedManifest)
	}

	doc := gjson.ParseBytes(buf)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level is %s, not an object", ErrMalformedManifest, describe(doc))
	}

	deps := make(Dependencies)
	var bundledList []string
	hasBundledList := false

	doc.ForEach(func(key, value gjson.Result) bool {
		c, ok := categoryForKey(key.String())
		if !ok {
			return true
		}

		switch {
		case value.IsObject():
			pkgs := objectPackages(value)
			if len(pkgs) == 0 {
				delete(deps, c)
			} else {
				deps[c] = pkgs
			}
			if c == Bundled {
				hasBundledList = false
			}
		case c == Bundled && value.IsArray():
			bundledList = bundledList[:0]
			for _, item := range value.Array() {
				if item.Type == gjson.String && item.String() != "" {
					bundledList = append(bundledList, item.String())
				}
			}
			hasBundledList = true
			delete(deps, Bundled)
		}
		return true
	})

	// npm's list form names packages already declared under "dependencies".
	if hasBundledList && len(bundledList) > 0 {
		pkgs := make(Packages, len(bundledList))
		for _, name := range bundledList {
			pkgs[name] = deps[Runtime][name]
		}
		deps[Bundled] = pkgs
	}

	return deps, nil
}

func objectPackages(value gjson.Result) Packages {
	pkgs := make(Packages)
	value.ForEach(func(name, version gjson.Result) bool {
		if version.Type == gjson.String {
			pkgs[name.String()] = version.String()
		} else {
			pkgs[name.String()] = version.Raw
		}
		return true
	})
	return pkgs
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "an array"
	case r.Type == gjson.String:
		return "a string"
	case r.Type == gjson.Number:
		return "a number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "a boolean"
	case r.Type == gjson.Null:
		return "null"
	default:
		return "empty"
	}
}
