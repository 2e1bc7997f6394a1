package container

import (
	"slices"
	"strings"
	"sync"
)

// AliasEntry is one source → target mapping.
type AliasEntry struct {
	Source TypeID `json:"source" yaml:"source"`
	Target TypeID `json:"target" yaml:"target"`
}

// AliasTable maps an identifier to the identifier that should be used
// instead. Typically an interface points at its implementation.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	aliases.Set("app.Greeter", "app.ServiceA", true)
type AliasTable struct {
	mu      sync.RWMutex
	entries map[TypeID]TypeID
}

// NewAliasTable creates an empty table.
func NewAliasTable() *AliasTable {
	return &AliasTable{entries: make(map[TypeID]TypeID)}
}

// Set records source → target. With overwrite false an existing entry for
// source wins and Set returns false. Self-aliases are ignored.
func (a *AliasTable) Set(source, target TypeID, overwrite bool) bool {
	if source == "" || target == "" || source == target {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.entries[source]; exists && !overwrite {
		return false
	}
	a.entries[source] = target
	return true
}

// Lookup returns the direct target of id, without following further hops.
func (a *AliasTable) Lookup(id TypeID) (TypeID, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	target, ok := a.entries[id]
	return target, ok
}

// Resolve follows aliases from id until an identifier without an entry is
// reached. An id with no alias resolves to itself.
func (a *AliasTable) Resolve(id TypeID) (TypeID, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	seen := map[TypeID]bool{id: true}
	path := []TypeID{id}
	for {
		next, ok := a.entries[id]
		if !ok {
			return id, nil
		}
		path = append(path, next)
		if seen[next] {
			return "", &AliasCycleError{Path: path}
		}
		seen[next] = true
		id = next
	}
}

// Entries returns every alias sorted by source.
func (a *AliasTable) Entries() []AliasEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]AliasEntry, 0, len(a.entries))
	for src, tgt := range a.entries {
		out = append(out, AliasEntry{Source: src, Target: tgt})
	}
	slices.SortFunc(out, func(x, y AliasEntry) int { return strings.Compare(string(x.Source), string(y.Source)) })
	return out
}

// Len returns the number of aliases.
func (a *AliasTable) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}
