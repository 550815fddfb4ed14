package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/haocluo92/well-scheduler/core/model"
)

// FeasibilityFn judges a candidate resource and, when it accepts, returns the
// assignment window.
type FeasibilityFn func(r *model.Resource) (Window, bool, error)

// Pool is a priority container over resources of a single kind, ordered by
// the next-available cursor with stable ties. Cursor mutation goes through
// Commit only.
type Pool struct {
	kind      model.ResourceKind
	resources []*model.Resource
}

// NewPool builds a pool over the given resources. Every resource must match
// the pool kind.
func NewPool(kind model.ResourceKind, resources ...*model.Resource) (*Pool, error) {
	for _, r := range resources {
		if r.Kind != kind {
			return nil, fmt.Errorf("pool %s: resource %s has kind %s", kind, r.Name, r.Kind)
		}
	}
	p := &Pool{kind: kind, resources: slices.Clone(resources)}
	p.sort()
	return p, nil
}

// Kind returns the resource kind the pool serves.
func (p *Pool) Kind() model.ResourceKind { return p.kind }

// Len returns the number of resources in the pool.
func (p *Pool) Len() int { return len(p.resources) }

// Resources returns a copy of the pool contents in current availability
// order.
func (p *Pool) Resources() []*model.Resource {
	return slices.Clone(p.resources)
}

// PeekBestFeasible re-sorts by availability and returns the first resource
// the feasibility callback accepts, with its window. ok is false when no
// resource is feasible.
func (p *Pool) PeekBestFeasible(fn FeasibilityFn) (r *model.Resource, w Window, ok bool, err error) {
	p.sort()
	for _, cand := range p.resources {
		w, accepted, err := fn(cand)
		if err != nil {
			return nil, Window{}, false, err
		}
		if accepted {
			return cand, w, true, nil
		}
	}
	return nil, Window{}, false, nil
}

// Commit advances the resource's availability cursor and re-sorts so that
// just-busied resources sink to the back.
func (p *Pool) Commit(r *model.Resource, busyUntil time.Time) error {
	if err := r.MarkBusyUntil(busyUntil); err != nil {
		return err
	}
	p.sort()
	return nil
}

func (p *Pool) sort() {
	slices.SortStableFunc(p.resources, func(a, b *model.Resource) int {
		return a.AvailableFrom.Compare(b.AvailableFrom)
	})
}
