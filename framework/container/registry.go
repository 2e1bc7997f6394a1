package container

import (
	"fmt"
	"strings"
	"sync"
)

// DuplicatePolicy decides what happens when an id is registered twice.
type DuplicatePolicy int

const (
	// DuplicateReplace overwrites the existing instance.
	DuplicateReplace DuplicatePolicy = iota
	// DuplicateReject keeps the existing instance and returns
	// ErrDuplicateService.
	DuplicateReject
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReplace:
		return "replace"
	case DuplicateReject:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy accepts "replace" or "reject" in any case.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "":
		return DuplicateReplace, nil
	case "reject":
		return DuplicateReject, nil
	default:
		return DuplicateReplace, fmt.Errorf("container: unknown duplicate policy %q", s)
	}
}

// Record is one registered instance.
type Record struct {
	Type     TypeID
	Instance any
}

// Matcher reports whether instance can stand in for id.
type Matcher func(instance any, id TypeID) bool

// ── Instance registry ────────────────────────────────────────────────────────

// InstanceRegistry owns the singletons of a container, keyed by type id and
// kept in registration order.
type InstanceRegistry struct {
	mu      sync.RWMutex
	records map[TypeID]any
	order   []TypeID

	aliases *AliasTable
	match   Matcher
}

// NewInstanceRegistry creates a registry. aliases and match may be nil, in
// which case lookups are by exact id only.
func NewInstanceRegistry(aliases *AliasTable, match Matcher) *InstanceRegistry {
	return &InstanceRegistry{
		records: make(map[TypeID]any),
		aliases: aliases,
		match:   match,
	}
}

// Get returns the instance stored under exactly id.
func (r *InstanceRegistry) Get(id TypeID) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.records[id]
	return inst, ok
}

// Put stores instance under id according to policy.
func (r *InstanceRegistry) Put(id TypeID, instance any, policy DuplicatePolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[id]; exists {
		if policy == DuplicateReject {
			return &DuplicateServiceError{Type: id}
		}
		r.records[id] = instance
		return nil
	}
	r.records[id] = instance
	r.order = append(r.order, id)
	return nil
}

// PutIfAbsent stores instance unless id is taken. It returns the instance
// that ends up registered and whether it was the one passed in.
func (r *InstanceRegistry) PutIfAbsent(id TypeID, instance any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, exists := r.records[id]; exists {
		return existing, false
	}
	r.records[id] = instance
	r.order = append(r.order, id)
	return instance, true
}

// Has reports whether Find would succeed.
func (r *InstanceRegistry) Has(id TypeID) bool {
	_, ok := r.Find(id)
	return ok
}

// Find looks id up directly, then through the alias table, then scans every
// instance in registration order for one that matches id.
func (r *InstanceRegistry) Find(id TypeID) (any, bool) {
	if inst, ok := r.Get(id); ok {
		return inst, true
	}
	if r.aliases != nil {
		if target, err := r.aliases.Resolve(id); err == nil && target != id {
			if inst, ok := r.Get(target); ok {
				return inst, true
			}
		}
	}
	if r.match == nil {
		return nil, false
	}

	for _, rec := range r.Entries() {
		if r.match(rec.Instance, id) {
			return rec.Instance, true
		}
	}
	return nil, false
}

// Entries returns every record in registration order.
func (r *InstanceRegistry) Entries() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Record{Type: id, Instance: r.records[id]})
	}
	return out
}

// Len returns the number of registered instances.
func (r *InstanceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
