package service

import (
	"sync"

	"github.com/rl1809/axion/internal/core/domain"
)

// ViewRouter holds the active view and the product carried into the
// simulator under a single lock.
type ViewRouter struct {
	mu    sync.RWMutex
	state domain.ViewState
}

func NewViewRouter() *ViewRouter {
	return &ViewRouter{state: domain.ViewState{Active: domain.ViewDashboard}}
}

func (r *ViewRouter) State() domain.ViewState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := domain.ViewState{Active: r.state.Active}
	if r.state.Selected != nil {
		p := *r.state.Selected
		st.Selected = &p
	}
	return st
}

// SetActive switches view and keeps the selected product.
func (r *ViewRouter) SetActive(view domain.View) error {
	v, err := domain.ParseView(string(view))
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.state.Active = v
	r.mu.Unlock()
	return nil
}

// NavigateToSimulator selects product and activates the simulator in one update.
func (r *ViewRouter) NavigateToSimulator(product domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = domain.ViewState{Active: domain.ViewSimulator, Selected: &product}
}
