package resolver

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfnative/core"
)

var (
	// ErrCycle is returned when expanding an object reaches a reference
	// that is already being expanded.
	ErrCycle = errors.New("circular reference")
	// ErrMaxDepth is returned when nesting exceeds the configured depth.
	ErrMaxDepth = errors.New("maximum recursion depth exceeded")
	// ErrNotFound is returned by Object for ids the reader cannot load.
	ErrNotFound = errors.New("object not found")
)

// ObjectReader is the lookup the resolver works on. reader.Document
// implements it.
type ObjectReader interface {
	Object(id int) (core.Object, bool)
	ResolveReference(obj core.Object) core.Object
}

// ObjectResolver expands indirect references in PDF objects.
// It can recursively resolve references in dictionaries and arrays.
type ObjectResolver struct {
	reader       ObjectReader
	visited      map[int]bool // references on the current path
	maxDepth     int
	currentDepth int
	keepCycles   bool
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithKeepCycles leaves a reference that would close a cycle in place
// instead of failing. Page dictionaries always form cycles through /Parent.
func WithKeepCycles() Option {
	return func(r *ObjectResolver) {
		r.keepCycles = true
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		visited:  make(map[int]bool),
		maxDepth: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows obj if it is a reference. Nested references are left
// alone.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	defer r.Reset()
	return r.resolve(obj, false)
}

// ResolveDeep returns a copy of obj with every nested reference replaced
// by its target. Stream payloads are shared with the original.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	defer r.Reset()
	return r.resolve(obj, true)
}

func (r *ObjectResolver) resolve(obj core.Object, deep bool) (core.Object, error) {
	if r.currentDepth >= r.maxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if r.visited[v.Number] {
			if r.keepCycles {
				return v, nil
			}
			return nil, fmt.Errorf("%w at object %d", ErrCycle, v.Number)
		}
		r.visited[v.Number] = true
		defer delete(r.visited, v.Number)

		resolved := r.reader.ResolveReference(v)
		if !deep {
			return resolved, nil
		}
		return r.descend(resolved)

	case core.Dict:
		if !deep {
			return v, nil
		}
		out := make(core.Dict, len(v))
		for key, value := range v {
			res, err := r.descend(value)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			out[key] = res
		}
		return out, nil

	case core.Array:
		if !deep {
			return v, nil
		}
		out := make(core.Array, len(v))
		for i, elem := range v {
			res, err := r.descend(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			out[i] = res
		}
		return out, nil

	case *core.Stream:
		if !deep {
			return v, nil
		}
		dict, err := r.descend(v.Dict)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		return v.WithDict(dict.(core.Dict)), nil
	}

	return obj, nil
}

func (r *ObjectResolver) descend(obj core.Object) (core.Object, error) {
	r.currentDepth++
	defer func() { r.currentDepth-- }()
	return r.resolve(obj, true)
}

// Reset clears the visited set and depth counter.
func (r *ObjectResolver) Reset() {
	clear(r.visited)
	r.currentDepth = 0
}

// ResolveDict deep-resolves a dictionary.
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray deep-resolves an array.
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// Object loads object id and deep-resolves it. The object's own number
// counts as visited, so a reference back to it is a cycle.
func (r *ObjectResolver) Object(id int) (core.Object, error) {
	obj, ok := r.reader.Object(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	defer r.Reset()
	r.visited[id] = true
	return r.resolve(obj, true)
}
