package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/port"
)

const productsKey = "axion_products"

var ErrCorruptProductList = errors.New("persisted product list is not valid json")

// ProductRepository serializes the whole product list as one JSON value
// under a single KV key.
type ProductRepository struct {
	kv  port.KVStore
	key string
}

func NewProductRepository(kv port.KVStore, keyPrefix string) *ProductRepository {
	return &ProductRepository{kv: kv, key: keyPrefix + productsKey}
}

func (r *ProductRepository) GetProducts(ctx context.Context, defaults []domain.Product) ([]domain.Product, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if !ok {
		out := make([]domain.Product, len(defaults))
		copy(out, defaults)
		return out, nil
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptProductList, err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

func (r *ProductRepository) SaveProducts(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}

	b, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

var _ port.ProductRepository = (*ProductRepository)(nil)
