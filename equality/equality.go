// Package equality implements the structural comparison oracle backing the
// test suite. Two graphs of the same formalism are equal when their
// (sub)process decomposition matches and, per subnet and node type, the
// multisets of comparable strings match. The oracle is insensitive to
// graphical geometry and element ordering.
package equality

import (
	"fmt"
	"sort"
	"strings"
)

// multiset counts comparable strings per element type.
type multiset map[string]map[string]int

func (m multiset) add(typeKey, value string) {
	if m[typeKey] == nil {
		m[typeKey] = map[string]int{}
	}
	m[typeKey][value]++
}

// sortedKeys returns the type keys of the multiset in order.
func (m multiset) sortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sameKeys(a, b multiset) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// difference returns the values of a not covered by b, with multiplicity.
func difference(a, b map[string]int) []string {
	var diff []string
	for value, count := range a {
		excess := count - b[value]
		for i := 0; i < excess; i++ {
			diff = append(diff, value)
		}
	}
	sort.Strings(diff)
	return diff
}

// compareTypeMaps produces the per-type diagnostics between two multisets.
func compareTypeMaps(containerID string, a, b multiset) []string {
	var errors []string
	for _, typeKey := range a.sortedKeys() {
		left, right := a[typeKey], b[typeKey]
		if equalCounts(left, right) {
			continue
		}
		diff1to2 := difference(left, right)
		diff2to1 := difference(right, left)
		errors = append(errors, fmt.Sprintf(
			"%s\n%s difference equality| 1 to 2: %v | 2 to 1: %v",
			containerID, typeKey, diff1to2, diff2to1,
		))
	}
	return errors
}

func equalCounts(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for value, count := range a {
		if b[value] != count {
			return false
		}
	}
	return true
}

func joinComparable(parts ...string) string {
	var nonEmpty []string
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, "_")
}
