package detector

import (
	"errors"
	"fmt"
)

var (
	// ErrVersionMismatch marks a detector whose API version differs from the
	// host's expected version.
	ErrVersionMismatch = errors.New("api version mismatch")
	// ErrDuplicateID marks a registration that collides with an existing
	// detector id.
	ErrDuplicateID = errors.New("duplicate detector id")
)

// Registry holds the detectors available to the host. It is populated
// explicitly during startup and read-only afterwards; a rejected registration
// never overwrites an existing entry.
type Registry struct {
	expected int
	order    []Detector
	byID     map[string]Detector
}

// NewRegistry returns a registry expecting the current API version.
func NewRegistry() *Registry {
	return &Registry{expected: APIVersion, byID: make(map[string]Detector)}
}

// Register adds a detector. It fails with ErrVersionMismatch or
// ErrDuplicateID; either failure leaves the registry unchanged.
func (r *Registry) Register(d Detector) error {
	if got := d.APIVersion(); got != r.expected {
		return fmt.Errorf("%w: detector %s reports version %d, host expects %d",
			ErrVersionMismatch, d.ID(), got, r.expected)
	}

	if _, exists := r.byID[d.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, d.ID())
	}

	r.byID[d.ID()] = d
	r.order = append(r.order, d)
	return nil
}

// Detectors returns all registered detectors in registration order.
func (r *Registry) Detectors() []Detector {
	out := make([]Detector, len(r.order))
	copy(out, r.order)
	return out
}

// Get looks up a detector by id.
func (r *Registry) Get(id string) (Detector, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Len returns the number of registered detectors.
func (r *Registry) Len() int {
	return len(r.order)
}

// Filter selects registered detectors by id. An empty list selects all
// detectors; an unknown id is an error; duplicate ids collapse to one entry.
func (r *Registry) Filter(ids []string) ([]Detector, error) {
	if len(ids) == 0 {
		return r.Detectors(), nil
	}

	var selected []Detector
	seen := map[string]struct{}{}
	for _, id := range ids {
		d, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown detector: %s", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, d)
	}
	return selected, nil
}
