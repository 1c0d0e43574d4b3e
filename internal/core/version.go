package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"
)

// versionKey holds the major, minor and patch components that decide
// ordering. Components after the third are not part of the key.
type versionKey [3]int

// versionCache memoizes parsed version keys and Debian-style versions used
// to break ties between keys that compare equal.
type versionCache struct {
	keys map[string]versionKey
	deb  map[string]debversion.Version
}

func newVersionCache() *versionCache {
	return &versionCache{
		keys: map[string]versionKey{},
		deb:  map[string]debversion.Version{},
	}
}

// key returns the parsed numeric key for value, caching the result.
func (c *versionCache) key(value string) (versionKey, error) {
	if parsed, ok := c.keys[value]; ok {
		return parsed, nil
	}
	parsed, err := parseVersionKey(value)
	if err != nil {
		return versionKey{}, err
	}
	c.keys[value] = parsed
	return parsed, nil
}

// debVersion returns a parsed Debian version, caching the result.
func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1 comparing two already validated versions.
// Equal numeric keys fall back to a full Debian comparison, then to a
// plain string comparison, so the result never depends on input order.
func (c *versionCache) compare(a string, b string) int {
	ka := c.keys[a]
	kb := c.keys[b]
	if cmp := compareVersionKeys(ka, kb); cmp != 0 {
		return cmp
	}
	v1, err1 := c.debVersion(a)
	v2, err2 := c.debVersion(b)
	if err1 == nil && err2 == nil {
		if cmp := v1.Compare(v2); cmp != 0 {
			return cmp
		}
	}
	return strings.Compare(a, b)
}

// parseVersionKey reads up to three dot-separated non-negative integers.
// Missing components count as zero; a non-numeric component is rejected.
func parseVersionKey(value string) (versionKey, error) {
	var key versionKey
	parts := strings.Split(strings.TrimSpace(value), ".")
	for i := 0; i < len(parts) && i < len(key); i++ {
		part := parts[i]
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return versionKey{}, invalidVersion(value)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return versionKey{}, invalidVersion(value)
		}
		key[i] = n
	}
	return key, nil
}

func compareVersionKeys(a versionKey, b versionKey) int {
	for i := range a {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	return 0
}

// CompareVersions orders two dotted numeric versions by major, minor and
// patch. It returns a positive value when a is newer than b.
func CompareVersions(a string, b string) (int, error) {
	cache := newVersionCache()
	if _, err := cache.key(a); err != nil {
		return 0, err
	}
	if _, err := cache.key(b); err != nil {
		return 0, err
	}
	return compareVersionKeys(cache.keys[a], cache.keys[b]), nil
}

// SortVersionsDescending returns a copy of versions ordered newest first.
// Any malformed entry fails the whole list.
func SortVersionsDescending(versions []string) ([]string, error) {
	cache := newVersionCache()
	for _, version := range versions {
		if _, err := cache.key(version); err != nil {
			return nil, err
		}
	}
	ordered := make([]string, len(versions))
	copy(ordered, versions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return cache.compare(ordered[i], ordered[j]) > 0
	})
	return ordered, nil
}

func invalidVersion(value string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version %q", value))
}
