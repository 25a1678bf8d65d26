package detection

import (
	"fmt"
	"sync"
)

// Factory constructs and loads a detector backend. Called at most once per
// in-flight initialization; a returned error maps to ErrModelUnavailable.
type Factory func() (Detector, error)

// Registry owns one lazily-initialized detector handle per document type.
//
// Handles are constructed on first Get for a type and memoized for the
// process lifetime. Initialization is single-flight: concurrent first
// requests for the same type block on a per-type lock and exactly one of
// them runs the factory. A failed initialization is not memoized, so a later
// request retries rather than pinning the type unavailable forever.
type Registry struct {
	mu      sync.Mutex
	entries map[DocumentType]*entry
}

type entry struct {
	factory Factory

	mu     sync.Mutex
	handle *Handle
}

// NewRegistry creates an empty registry. Backends are added with Register.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[DocumentType]*entry)}
}

// Register binds a factory to a document type, replacing any previous
// binding. Registration happens at startup, before requests flow.
func (r *Registry) Register(t DocumentType, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[t] = &entry{factory: f}
}

// Types returns the registered document types.
func (r *Registry) Types() []DocumentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]DocumentType, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	return types
}

// Get returns the handle for a document type, constructing it on first use.
//
// Returns ErrUnknownDocumentType for unregistered types and a
// ErrModelUnavailable-wrapped error when the factory fails.
func (r *Registry) Get(t DocumentType) (*Handle, error) {
	r.mu.Lock()
	e, ok := r.entries[t]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, t)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle != nil {
		return e.handle, nil
	}

	det, err := e.factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	e.handle = &Handle{docType: t, detector: det}
	return e.handle, nil
}
