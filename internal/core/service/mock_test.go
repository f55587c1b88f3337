package service

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/axion/internal/core/domain"
)

// Mock ProductRepository recording every write
type mockProductRepo struct {
	mu       sync.Mutex
	stored   []domain.Product
	hasValue bool
	saves    [][]domain.Product
	delay    time.Duration
	getErr   error
	saveErr  error

	inFlight    int
	maxInFlight int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{}
}

func (m *mockProductRepo) GetProducts(ctx context.Context, defaults []domain.Product) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	if !m.hasValue {
		return append([]domain.Product{}, defaults...), nil
	}
	return append([]domain.Product{}, m.stored...), nil
}

func (m *mockProductRepo) SaveProducts(ctx context.Context, products []domain.Product) error {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--

	m.saves = append(m.saves, append([]domain.Product{}, products...))
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = append([]domain.Product{}, products...)
	m.hasValue = true
	return nil
}

func (m *mockProductRepo) savesSnapshot() [][]domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Product{}, m.saves...)
}

func (m *mockProductRepo) storedSnapshot() []domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Product{}, m.stored...)
}

// Mock KVStore
type mockKV struct {
	mu      sync.Mutex
	entries map[string]string
	err     error
}

func newMockKV() *mockKV {
	return &mockKV{entries: make(map[string]string)}
}

func (m *mockKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[key] = value
	return nil
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.entries, key)
	return nil
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
