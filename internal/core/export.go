package core

import (
	"fmt"
	"sort"
	"sync"
)

// ExportTarget describes a platform column-naming convention applied
// to headers on export. Cell data is never touched.
type ExportTarget struct {
	// Key is the stable identifier used by the API and CLI: "salesforce".
	Key string `json:"key"`

	// Label is the display name: "Salesforce Compatible".
	Label string `json:"label"`

	// Rename maps a column header to the target's convention.
	// Nil means headers pass through unchanged.
	Rename func(string) string `json:"-"`

	// Placeholder marks targets whose real mapping rules are not yet
	// defined and which currently pass headers through unchanged.
	Placeholder bool `json:"placeholder"`
}

var (
	targetRegistry = make(map[string]ExportTarget)
	targetMu       sync.RWMutex
)

// RegisterTarget adds an export target to the registry.
// Panics if a target with the same key is already registered.
func RegisterTarget(t ExportTarget) {
	targetMu.Lock()
	defer targetMu.Unlock()

	if _, exists := targetRegistry[t.Key]; exists {
		panic(fmt.Sprintf("export target already registered: %s", t.Key))
	}
	targetRegistry[t.Key] = t
}

// Target returns an export target by key.
// Returns false if not found.
func Target(key string) (ExportTarget, bool) {
	targetMu.RLock()
	defer targetMu.RUnlock()

	t, ok := targetRegistry[key]
	return t, ok
}

// Targets returns all registered export targets, sorted by key for
// consistent ordering.
func Targets() []ExportTarget {
	targetMu.RLock()
	defer targetMu.RUnlock()

	result := make([]ExportTarget, 0, len(targetRegistry))
	for _, t := range targetRegistry {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ClearTargets removes all registered targets.
// Primarily useful for testing.
func ClearTargets() {
	targetMu.Lock()
	defer targetMu.Unlock()
	targetRegistry = make(map[string]ExportTarget)
}

// Format returns a copy of the table with column names rewritten to
// the target's convention. Cell values are unchanged. Targets without
// a rename rule yield an unchanged copy.
func Format(t Table, target ExportTarget) Table {
	out := t.Clone()
	if target.Rename == nil {
		return out
	}
	for i := range out.Columns {
		out.Columns[i].Name = target.Rename(out.Columns[i].Name)
	}
	return out
}
