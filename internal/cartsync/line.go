package cartsync

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

// LineID identifies a line in the snapshot. It is either a ProvisionalID,
// generated locally before the store has seen the line, or a DurableID
// assigned by the store. No other implementations exist.
type LineID interface {
	String() string
	lineID()
}

type ProvisionalID string

func (ProvisionalID) lineID()           {}
func (id ProvisionalID) String() string { return string(id) }

type DurableID string

func (DurableID) lineID()           {}
func (id DurableID) String() string { return string(id) }

func newPlaceholder() ProvisionalID {
	return ProvisionalID("temp-" + uuid.NewString())
}

type Line struct {
	ID        LineID          `json:"id"`
	SessionID string          `json:"session_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   product.Product `json:"product"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Provisional reports whether the store has not yet assigned an identifier.
func (l Line) Provisional() bool {
	_, ok := l.ID.(ProvisionalID)
	return ok
}

func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

func lineFromRecord(rec cart.Line) Line {
	l := Line{
		ID:        DurableID(rec.ID),
		SessionID: rec.SessionID,
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Product != nil {
		l.Product = *rec.Product
	} else {
		l.Product.ID = rec.ProductID
	}
	return l
}
