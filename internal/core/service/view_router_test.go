package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/rl1809/axion/internal/core/domain"
)

func TestViewRouter_DefaultsToDashboard(t *testing.T) {
	r := NewViewRouter()

	st := r.State()
	if st.Active != domain.ViewDashboard {
		t.Errorf("expected dashboard, got %s", st.Active)
	}
	if st.Selected != nil {
		t.Error("expected no selection")
	}
}

func TestViewRouter_SetActiveKeepsSelection(t *testing.T) {
	r := NewViewRouter()
	r.NavigateToSimulator(domain.Product{ID: "1"})

	if err := r.SetActive(domain.ViewInventory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := r.State()
	if st.Active != domain.ViewInventory || st.Selected == nil || st.Selected.ID != "1" {
		t.Errorf("unexpected state: %+v", st)
	}
}

func TestViewRouter_RejectsUnknownView(t *testing.T) {
	r := NewViewRouter()

	err := r.SetActive(domain.View("reports"))
	if !errors.Is(err, domain.ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got: %v", err)
	}
	if r.State().Active != domain.ViewDashboard {
		t.Error("expected view unchanged")
	}
}

func TestViewRouter_StateIsACopy(t *testing.T) {
	r := NewViewRouter()
	r.NavigateToSimulator(domain.Product{ID: "1", Name: "orig"})

	st := r.State()
	st.Selected.Name = "mutated"

	if r.State().Selected.Name != "orig" {
		t.Error("expected router state to be isolated from callers")
	}
}

func TestViewRouter_NavigateIsAtomic(t *testing.T) {
	r := NewViewRouter()
	product := domain.Product{ID: "42"}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				st := r.State()
				if st.Active == domain.ViewSimulator && (st.Selected == nil || st.Selected.ID != "42") {
					t.Errorf("simulator active without its product: %+v", st)
					return
				}
				if st.Selected != nil && st.Active != domain.ViewSimulator {
					t.Errorf("product selected outside simulator: %+v", st)
					return
				}
			}
		}()
	}

	r.NavigateToSimulator(product)
	close(stop)
	wg.Wait()

	st := r.State()
	if st.Active != domain.ViewSimulator || st.Selected == nil || st.Selected.ID != "42" {
		t.Errorf("unexpected final state: %+v", st)
	}
}
