package cart

import (
	"errors"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

var (
	ErrNotFound           = errors.New("cart line not found")
	ErrLineExists         = errors.New("cart line already exists for product")
	ErrProductUnavailable = errors.New("product is not orderable")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)

// Line is one persisted product/quantity pairing for a session.
// Product is populated by FetchLines only.
type Line struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (l Line) Subtotal() int64 {
	if l.Product == nil {
		return 0
	}
	return l.Product.Price * int64(l.Quantity)
}
