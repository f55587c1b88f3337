package port

import (
	"context"

	"github.com/rl1809/axion/internal/core/domain"
)

type ProductRepository interface {
	// GetProducts returns the persisted product list, or defaults when nothing was persisted yet
	GetProducts(ctx context.Context, defaults []domain.Product) ([]domain.Product, error)

	// SaveProducts overwrites the persisted list with products
	SaveProducts(ctx context.Context, products []domain.Product) error
}
