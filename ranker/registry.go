package ranker

import "sync"

// Scoring model names exposed by the registry. Switching models changes how
// combinations are looked up against the same outcome table.
const (
	ModelExact   = "Exact Match"
	ModelNearest = "Nearest Neighbour"
	ModelBlended = "Blended"
)

// Registry holds the available scoring models and which one is active.
// Safe for concurrent use by request handlers.
type Registry struct {
	mu      sync.RWMutex
	models  map[string]Scorer
	names   []string
	current string
}

func NewRegistry() *Registry {
	return &Registry{
		models: map[string]Scorer{
			ModelExact:   ExactScorer{},
			ModelNearest: NearestScorer{},
			ModelBlended: BlendedScorer{K: 3},
		},
		names:   []string{ModelExact, ModelNearest, ModelBlended},
		current: ModelNearest,
	}
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Switch activates the named model; it reports false for unknown names and
// leaves the current model untouched.
func (r *Registry) Switch(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[name]; !ok {
		return false
	}
	r.current = name
	return true
}

// ActiveScorer returns the scorer for the current model together with its
// name, so cached results can be keyed on it.
func (r *Registry) ActiveScorer() (Scorer, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.models[r.current], r.current
}
