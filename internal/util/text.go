package util

import (
	"net/url"
	"strings"
)

// NormalizeResourceKey trims surrounding whitespace from a source resource
// identifier and percent-encodes it so it can be embedded in an entity
// reference. The same raw key always yields the same encoded form, which is
// what lets artifact nodes produced by different events collapse onto a
// single subject.
func NormalizeResourceKey(key string) string {
	return url.PathEscape(strings.TrimSpace(key))
}
