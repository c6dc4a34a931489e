package service

import (
	"sort"
	"sync"
)

// DestinationRegistry is the set of chat destinations subscribed to release
// notifications. Membership is the only state; it lives in memory and is
// lost on restart.
type DestinationRegistry struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func NewDestinationRegistry() *DestinationRegistry {
	return &DestinationRegistry{ids: make(map[int64]struct{})}
}

// Add subscribes a destination. Returns false if it was already subscribed.
func (r *DestinationRegistry) Add(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[id]; ok {
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Remove unsubscribes a destination. Returns false if it was not subscribed.
func (r *DestinationRegistry) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[id]; !ok {
		return false
	}
	delete(r.ids, id)
	return true
}

// List returns the subscribed destinations in stable order.
func (r *DestinationRegistry) List() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *DestinationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
