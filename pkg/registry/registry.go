package registry

import (
	"sort"
	"sync"

	"github.com/arthur-debert/outfit/pkg/errors"
)

// Registry is a generic, thread-safe store of items by name. The template
// and stylesheet registries keep their programmatic layer in one.
type Registry[T any] interface {
	// Set adds or replaces an item
	Set(name string, item T) error

	// Get retrieves an item
	Get(name string) (T, error)

	// Remove removes an item
	Remove(name string) error

	// List returns all registered names
	List() []string
}

type registry[T any] struct {
	mu       sync.RWMutex
	items    map[string]T
	notFound errors.ErrorCode
}

// New creates an empty Registry. Lookups of missing names fail with
// notFound.
func New[T any](notFound errors.ErrorCode) Registry[T] {
	return &registry[T]{
		items:    make(map[string]T),
		notFound: notFound,
	}
}

func (r *registry[T]) Set(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[name] = item
	return nil
}

func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(r.notFound, "'%s' not found", name).WithDetail("name", name)
	}

	return item, nil
}

func (r *registry[T]) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; !exists {
		return errors.Newf(r.notFound, "'%s' not found", name).WithDetail("name", name)
	}

	delete(r.items, name)
	return nil
}

// List returns all registered names in sorted order
func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
