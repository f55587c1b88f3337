package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/port"
)

// ProductStore is the in-memory ordered product list. Every change hands a
// snapshot to the change listener while the store lock is held, so listeners
// observe changes in mutation order.
type ProductStore struct {
	repo port.ProductRepository

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
	onChange func([]domain.Product)
}

func NewProductStore(repo port.ProductRepository) *ProductStore {
	return &ProductStore{repo: repo, products: []domain.Product{}}
}

// OnChange registers the single change listener.
func (s *ProductStore) OnChange(fn func([]domain.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Load fetches the persisted list, falling back to defaults on first run.
func (s *ProductStore) Load(ctx context.Context, defaults []domain.Product) ([]domain.Product, error) {
	products, err := s.repo.GetProducts(ctx, defaults)
	if err != nil {
		return nil, err
	}

	s.Replace(products)
	return s.Products(), nil
}

// Replace swaps the whole list.
func (s *ProductStore) Replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]domain.Product{}, products...)
	s.loaded = true
	s.notifyLocked()
}

// Seed fills the list without notifying and leaves the store unloaded, so
// nothing is persisted until a real mutation happens.
func (s *ProductStore) Seed(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]domain.Product{}, products...)
	s.loaded = false
}

// Add prepends product. Ids are not checked for uniqueness.
func (s *ProductStore) Add(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Product, 0, len(s.products)+1)
	next = append(next, product)
	next = append(next, s.products...)
	s.products = next
	s.loaded = true
	s.notifyLocked()
}

// Remove drops every entry with the given id and reports whether anything
// was removed. Unknown ids leave the list and listeners untouched.
func (s *ProductStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(s.products) {
		return false
	}

	s.products = next
	s.loaded = true
	s.notifyLocked()
	return true
}

// Resync hands the current list to the listener again without changing it.
func (s *ProductStore) Resync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		s.notifyLocked()
	}
}

func (s *ProductStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *ProductStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product{}, s.products...)
}

func (s *ProductStore) Find(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Filter matches query case-insensitively against name and description and
// category exactly. Empty arguments match everything.
func (s *ProductStore) Filter(query, category string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Product{}
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func (s *ProductStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func (s *ProductStore) notifyLocked() {
	if s.onChange == nil {
		return
	}
	s.onChange(append([]domain.Product{}, s.products...))
}
