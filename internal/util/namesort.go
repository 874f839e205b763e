package util

import (
	"sort"
	"strings"
)

// sectionPrefix parses the leading dot-separated integer run of a content
// name: "2.10 Foo" -> [2, 10]. ok is false when the name has no leading
// digits at all.
func sectionPrefix(name string) (parts []int, ok bool) {
	rest := strings.TrimSpace(name)
	for {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			break
		}
		n := 0
		for _, c := range rest[:i] {
			n = n*10 + int(c-'0')
		}
		parts = append(parts, n)
		rest = rest[i:]
		if !strings.HasPrefix(rest, ".") {
			break
		}
		rest = rest[1:]
	}
	return parts, len(parts) > 0
}

// SectionLess orders content names by their numeric section prefix, so that
// "2.9" sorts before "2.10". Names without a numeric prefix sort after all
// prefixed names; empty names sort last. Ties fall back to plain string
// comparison, which keeps the ordering deterministic.
func SectionLess(a, b string) bool {
	if a == "" || b == "" {
		// an empty name is never less; a non-empty name beats an empty one
		return a != "" && b == ""
	}

	pa, okA := sectionPrefix(a)
	pb, okB := sectionPrefix(b)

	if okA != okB {
		return okA
	}
	if !okA {
		return strings.Compare(a, b) < 0
	}

	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		// missing trailing components compare as 0
		va, vb := 0, 0
		if i < len(pa) {
			va = pa[i]
		}
		if i < len(pb) {
			vb = pb[i]
		}
		if va != vb {
			return va < vb
		}
	}
	return strings.Compare(a, b) < 0
}

// SortBySectionName stably sorts items in place by their section name.
func SortBySectionName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return SectionLess(name(items[i]), name(items[j]))
	})
}
