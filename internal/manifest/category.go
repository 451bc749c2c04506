package manifest

import (
	"fmt"
	"strings"
)

// Category is one of the five recognized dependency roles.
type Category int

const (
	Runtime Category = iota
	Development
	Optional
	Peer
	Bundled
)

// Categories lists every category in manifest order.
var Categories = []Category{Runtime, Development, Optional, Peer, Bundled}

// String returns the role name of the category.
func (c Category) String() string {
	switch c {
	case Runtime:
		return "runtime"
	case Development:
		return "development"
	case Optional:
		return "optional"
	case Peer:
		return "peer"
	case Bundled:
		return "bundled"
	default:
		return "unknown"
	}
}

// Key returns the manifest field the category is declared under.
func (c Category) Key() string {
	switch c {
	case Runtime:
		return "dependencies"
	case Development:
		return "devDependencies"
	case Optional:
		return "optionalDependencies"
	case Peer:
		return "peerDependencies"
	case Bundled:
		return "bundledDependencies"
	default:
		return ""
	}
}

// categoryForKey maps a manifest field to its category, including the
// "bundleDependencies" spelling npm also accepts.
func categoryForKey(key string) (Category, bool) {
	switch key {
	case "dependencies":
		return Runtime, true
	case "devDependencies":
		return Development, true
	case "optionalDependencies":
		return Optional, true
	case "peerDependencies":
		return Peer, true
	case "bundledDependencies", "bundleDependencies":
		return Bundled, true
	default:
		return 0, false
	}
}

// ParseCategory accepts either a role name ("dev", "development") or a manifest key.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "runtime", "prod", "production", "dependencies":
		return Runtime, nil
	case "development", "dev", "devdependencies":
		return Development, nil
	case "optional", "optionaldependencies":
		return Optional, nil
	case "peer", "peerdependencies":
		return Peer, nil
	case "bundled", "bundle", "bundleddependencies", "bundledependencies":
		return Bundled, nil
	default:
		return 0, fmt.Errorf("unknown dependency category %q", s)
	}
}
