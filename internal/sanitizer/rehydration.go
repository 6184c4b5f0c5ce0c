package sanitizer

import (
	"sync"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

// Rehydration maps placeholder tokens back to their original values for
// exactly one request/response cycle. It is allocated fresh per sanitize
// call, never pooled, and must be destroyed explicitly once the final
// response is built; downstream logging or error paths must not be able
// to observe its contents afterward.
type Rehydration struct {
	mu        sync.Mutex
	m         map[string]string
	destroyed bool
}

func newRehydration() *Rehydration {
	return &Rehydration{m: make(map[string]string)}
}

// RehydrationFromMap wraps an externally supplied token map (e.g. one a
// client passed back through the final route) so it can be destroyed under
// the same contract as a locally minted one. The map is adopted, not copied:
// Destroy clears the caller's map in place, so no populated alias survives.
func RehydrationFromMap(m map[string]string) *Rehydration {
	if m == nil {
		m = make(map[string]string)
	}
	return &Rehydration{m: m}
}

func (r *Rehydration) put(token, original string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[token] = original
}

// Len returns the number of mapped tokens, 0 after Destroy.
func (r *Rehydration) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Destroyed reports whether the map has been cleared.
func (r *Rehydration) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Tokens returns a copy of the mapping for serialization to the caller.
// The copy is the caller's responsibility; the engine itself never logs or
// persists it.
func (r *Rehydration) Tokens() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out
}

// Apply substitutes every known placeholder token in text with its original
// value. Unknown tokens are left untouched. After Destroy, Apply returns
// text unchanged.
func (r *Rehydration) Apply(text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed || len(r.m) == 0 {
		return text
	}
	return entity.TokenRE.ReplaceAllStringFunc(text, func(tok string) string {
		if orig, ok := r.m[tok]; ok {
			return orig
		}
		return tok
	})
}

// Destroy clears every entry and drops the backing map. The clear is
// explicit rather than left to garbage collection timing; a destroyed map
// is permanently empty.
func (r *Rehydration) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.m {
		delete(r.m, k)
	}
	r.m = nil
	r.destroyed = true
}
