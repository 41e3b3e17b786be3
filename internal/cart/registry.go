package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out the cart owned by a checkout session. The old
// frontend kept one process-wide store; here every session id maps to
// its own cart so no ambient global state survives.
type Registry struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[uuid.UUID]*Cart)}
}

// Get returns the session's cart, creating an empty one on first use.
func (r *Registry) Get(sessionID uuid.UUID) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[sessionID]
	if !ok {
		c = New()
		r.carts[sessionID] = c
	}

	return c
}

// Drop forgets the session's cart entirely.
func (r *Registry) Drop(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
}
