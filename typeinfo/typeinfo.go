// Package typeinfo implements the type registry (§4.1): the append-only,
// insertion-ordered bijection between a program's declared type names and
// their dense TypeIndex, plus each type's byte size.
package typeinfo

import "github.com/mmyjona/cvm/errs"

// WordSize is the platform machine-word size used for T_Pointer-typed
// values and for decoding immediate literals.
const WordSize = 8

// Index identifies a type in a Registry. Index(0) is the reserved
// null/invalid type; real user types start at 1. Pointer is a reserved
// sentinel, never handed out by Insert, that denotes a machine-word
// pointer value (see LoadDataPointer in package runtime).
type Index uint32

// Invalid is the null/invalid type. Looking up its size is undefined.
const Invalid Index = 0

// Pointer is the reserved T_Pointer type index.
const Pointer Index = ^Index(0)

// Info describes one registered type. A zero Size is legal: it marks an
// opaque, size-0 type.
type Info struct {
	Size int
}

// Registry is the append-only, insertion-ordered name -> TypeIndex bijection
// built from the parsed type declarations and frozen before execution.
// Create one with NewRegistry; the zero value is not ready to use.
type Registry struct {
	names  []string
	byName map[string]Index
	infos  []Info // infos[0] is the unused placeholder for Invalid.
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Index),
		infos:  []Info{{}},
	}
}

// Insert registers a new type name with its size, returning its dense
// index. Re-inserting an existing name reports ErrDuplicateType.
func (r *Registry) Insert(name string, info Info) (Index, error) {
	if _, ok := r.byName[name]; ok {
		return Invalid, errs.ErrDuplicateType
	}
	idx := Index(len(r.infos))
	r.infos = append(r.infos, info)
	r.byName[name] = idx
	r.names = append(r.names, name)
	return idx, nil
}

// Find looks up a type by name.
func (r *Registry) Find(name string) (Index, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// At returns the TypeInfo for idx. The size of TypeIndex(0) is undefined;
// callers must not pass Invalid. Pointer resolves to a machine-word size
// without consulting the backing array.
func (r *Registry) At(idx Index) Info {
	if idx == Pointer {
		return Info{Size: WordSize}
	}
	return r.infos[idx]
}

// Names returns the registered type names in insertion order.
func (r *Registry) Names() []string {
	return r.names
}

// Len reports how many real types are registered (excluding the Invalid
// placeholder).
func (r *Registry) Len() int {
	return len(r.infos) - 1
}
