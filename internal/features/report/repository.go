package report

import (
	"sort"
	"sync"
)

// ViewRepository holds the views mounted by connected dashboards. Views live
// only as long as the process; a restarted server starts with none.
type ViewRepository interface {
	Save(view *View)
	Get(id string) (*View, error)
	Delete(id string) error
	List() []*View
}

type ViewRepositoryImpl struct {
	mu    sync.RWMutex
	views map[string]*View
}

func NewViewRepository() ViewRepository {
	return &ViewRepositoryImpl{views: make(map[string]*View)}
}

func (r *ViewRepositoryImpl) Save(view *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[view.ID] = view
}

func (r *ViewRepositoryImpl) Get(id string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

func (r *ViewRepositoryImpl) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[id]; !ok {
		return ErrViewNotFound
	}
	delete(r.views, id)
	return nil
}

// List returns views ordered by ID.
func (r *ViewRepositoryImpl) List() []*View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
