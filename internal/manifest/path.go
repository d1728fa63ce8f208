package manifest

import (
	"fmt"
	"strings"
)

// Root is the path of the virtual tree's root.
const Root = "/"

// ResolvePath returns the hierarchical path of it within m by prepending
// ancestor titles up to a root item. Parents are looked up by slug, first
// match in collection order.
func ResolvePath(it Item, m Manifest) (string, error) {
	return resolve(it, m, nil)
}

func resolve(it Item, m Manifest, seen map[string]struct{}) (string, error) {
	if it.Parent == nil {
		return join(Root, it.Title), nil
	}
	parentSlug := *it.Parent
	if _, ok := seen[parentSlug]; ok {
		return "", fmt.Errorf("%w: %q reached twice from %q", ErrParentCycle, parentSlug, it.Slug)
	}
	parent, ok := m.BySlug(parentSlug)
	if !ok {
		return "", fmt.Errorf("%w: %q (parent of %q)", ErrUnknownParent, parentSlug, it.Slug)
	}
	if seen == nil {
		seen = make(map[string]struct{})
	}
	seen[parentSlug] = struct{}{}
	base, err := resolve(parent, m, seen)
	if err != nil {
		return "", err
	}
	return join(base, it.Title), nil
}

// join appends segment to base without doubling the separator. The segment
// is used literally: a title containing "/" yields extra levels.
func join(base, segment string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(segment, "/")
}

// Dir returns the path containing p: "/a/b" -> "/a", "/a" -> "/".
// The string is not cleaned, so ".." segments are kept as written.
func Dir(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return Root
	}
	return p[:i]
}

// CleanQuery normalizes a caller supplied path: "" becomes the root and a
// trailing separator is dropped.
func CleanQuery(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == Root {
		return Root
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}

// IsRootPath reports whether p designates the root of the tree.
func IsRootPath(p string) bool {
	return p == "" || p == Root
}
