package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/saver/effect"
)

var (
	ErrDuplicate     = errors.New("effect already registered")
	ErrUnknownEffect = errors.New("unknown effect")
	ErrInvalid       = errors.New("invalid registration")
)

// Registration describes one effect. Immutable once registered
type Registration struct {
	Name  string
	Flags effect.Flags
	New   func() effect.Effect
}

// Initializer adds registrations derived from runtime data (themes, config)
type Initializer func(r *Registry) error

// Registry holds registrations in insertion order and caches one instance per name
type Registry struct {
	mu           sync.RWMutex
	order        []string
	entries      map[string]Registration
	instances    map[string]effect.Effect
	initializers []Initializer
	initialized  bool
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		entries:   make(map[string]Registration),
		instances: make(map[string]effect.Effect),
	}
}

// Register adds a registration; the name must be non-empty and unique
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" || reg.New == nil {
		return fmt.Errorf("%w: name %q", ErrInvalid, reg.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, reg.Name)
	}
	r.entries[reg.Name] = reg
	r.order = append(r.order, reg.Name)
	return nil
}

// AddInitializer queues fn for Init
func (r *Registry) AddInitializer(fn Initializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initializers = append(r.initializers, fn)
}

// Init runs queued initializers once. Later calls are no-ops
func (r *Registry) Init() error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return nil
	}
	r.initialized = true
	pending := r.initializers
	r.initializers = nil
	r.mu.Unlock()

	// Initializers call Register, so the lock is not held here
	for _, fn := range pending {
		if err := fn(r); err != nil {
			return fmt.Errorf("registry init: %w", err)
		}
	}
	return nil
}

// Initialized reports whether Init has run
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Lookup returns the registration for name
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	return reg, ok
}

// Instance returns the cached instance for name, constructing it on first use
func (r *Registry) Instance(name string) (effect.Effect, error) {
	r.mu.RLock()
	inst, ok := r.instances[name]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[name]; ok {
		return inst, nil
	}
	reg, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}
	inst = reg.New()
	if inst == nil {
		return nil, fmt.Errorf("%w: %s constructor returned nil", ErrInvalid, name)
	}
	r.instances[name] = inst
	return inst, nil
}

// Discard drops the cached instance so the next Instance call builds a fresh one
func (r *Registry) Discard(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, name)
}

// Names returns registered names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registrations
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
