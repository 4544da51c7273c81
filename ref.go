package mantle

import (
	"sync"

	"github.com/google/uuid"
)

// Ref is a non-owning reference to a model, stored by weak properties in
// place of the model itself.
type Ref struct {
	ID uuid.UUID
}

// RefTo returns a Ref for m.
func RefTo(m *Model) Ref { return Ref{ID: m.id} }

func (r Ref) IsZero() bool { return r.ID == uuid.Nil }

// RefTable resolves Refs to live models. Forgotten or never registered
// targets resolve to nil, which is how a weak reference observes that its
// target is gone. A RefTable is safe for concurrent use.
type RefTable struct {
	mu     sync.RWMutex
	models map[uuid.UUID]*Model
}

func NewRefTable() *RefTable {
	return &RefTable{models: map[uuid.UUID]*Model{}}
}

// Register makes m resolvable and returns its Ref.
func (t *RefTable) Register(m *Model) Ref {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.models[m.id] = m
	return Ref{ID: m.id}
}

func (t *RefTable) Resolve(r Ref) *Model {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.models[r.ID]
}

// Forget drops the target; later Resolve calls return nil.
func (t *RefTable) Forget(r Ref) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.models, r.ID)
}

func (t *RefTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.models)
}
