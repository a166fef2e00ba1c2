package problem

import (
	"fmt"
	"slices"
	"sync"
)

// Constructor builds a problem instance for a dimension.
type Constructor[T Number] func(instance, dimension int) (*Problem[T], error)

// Limits are the selector ranges a family accepts.
type Limits struct {
	MaxID       int
	MinInstance int
	MaxInstance int
	MinDim      int
	MaxDim      int
}

// Check validates a selector triple against the limits.
func (l Limits) Check(family string, id, instance, dimension int) error {
	if id < 1 || id > l.MaxID {
		return &OutOfRangeError{Family: family, Field: "id", Value: id, Min: 1, Max: l.MaxID}
	}
	if instance < l.MinInstance || instance > l.MaxInstance {
		return &OutOfRangeError{Family: family, Field: "instance", Value: instance, Min: l.MinInstance, Max: l.MaxInstance}
	}
	if dimension < l.MinDim || dimension > l.MaxDim {
		return &OutOfRangeError{Family: family, Field: "dimension", Value: dimension, Min: l.MinDim, Max: l.MaxDim}
	}
	return nil
}

type entry[T Number] struct {
	name string
	id   int
	ctor Constructor[T]
}

// Registry maps problem names and ids of one family to constructors.
//
// Thread Safety: Safe for concurrent use.
type Registry[T Number] struct {
	mu     sync.RWMutex
	family string
	limits Limits
	byName map[string]*entry[T]
	byID   map[int]*entry[T]
}

// NewRegistry creates an empty registry for a family.
func NewRegistry[T Number](family string, limits Limits) *Registry[T] {
	return &Registry[T]{
		family: family,
		limits: limits,
		byName: make(map[string]*entry[T]),
		byID:   make(map[int]*entry[T]),
	}
}

// Register adds a constructor under a name and id. Both must be unique.
func (r *Registry[T]) Register(name string, id int, ctor Constructor[T]) error {
	if name == "" || ctor == nil {
		return &ConfigurationError{Field: "name", Value: name, Reason: "requires a name and a constructor"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return &DuplicateRegistrationError{Family: r.family, Name: name, ID: id}
	}
	if _, exists := r.byID[id]; exists {
		return &DuplicateRegistrationError{Family: r.family, Name: name, ID: id}
	}

	e := &entry[T]{name: name, id: id, ctor: ctor}
	r.byName[name] = e
	r.byID[id] = e
	return nil
}

// MustRegister registers a constructor and panics on error.
// Use it only while building a registry at startup.
func (r *Registry[T]) MustRegister(name string, id int, ctor Constructor[T]) {
	if err := r.Register(name, id, ctor); err != nil {
		panic(fmt.Sprintf("problem: failed to register %s: %v", name, err))
	}
}

// Create builds the problem registered under id.
func (r *Registry[T]) Create(id, instance, dimension int) (*Problem[T], error) {
	r.mu.RLock()
	e, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Field: "id", Value: id, Reason: "is not registered in " + r.family}
	}
	return r.create(e, instance, dimension)
}

// CreateByName builds the problem registered under name.
func (r *Registry[T]) CreateByName(name string, instance, dimension int) (*Problem[T], error) {
	r.mu.RLock()
	e, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Field: "name", Value: name, Reason: "is not registered in " + r.family}
	}
	return r.create(e, instance, dimension)
}

func (r *Registry[T]) create(e *entry[T], instance, dimension int) (*Problem[T], error) {
	if err := r.limits.Check(r.family, e.id, instance, dimension); err != nil {
		return nil, err
	}
	p, err := e.ctor(instance, dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s instance %d dimension %d: %w", e.name, instance, dimension, err)
	}
	return p, nil
}

// Names returns the registered names ordered by id.
func (r *Registry[T]) Names() []string {
	ids := r.IDs()

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.byID[id].name
	}
	return names
}

// IDs returns the registered ids in ascending order.
func (r *Registry[T]) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Lookup resolves a name to its id.
func (r *Registry[T]) Lookup(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[name]
	if !ok {
		return 0, false
	}
	return e.id, true
}

// Family returns the family name.
func (r *Registry[T]) Family() string {
	return r.family
}

// Limits returns the selector limits of the family.
func (r *Registry[T]) Limits() Limits {
	return r.limits
}
