package cartsync

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// Gateway is the persisted cart as the engine sees it. FetchLines never
// fails: implementations log retrieval errors and return an empty list.
// UpdateQuantity and DeleteLine only take durable identifiers, so lines the
// store has not seen can not be sent to it.
type Gateway interface {
	FetchLines(ctx context.Context, sessionID string) []cart.Line
	InsertLine(ctx context.Context, sessionID, productID string, quantity int) (cart.Line, error)
	IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (cart.Line, error)
	UpdateQuantity(ctx context.Context, id DurableID, quantity int) error
	DeleteLine(ctx context.Context, id DurableID) error
}

// StoreGateway runs the engine directly against a cart.Store.
type StoreGateway struct {
	store cart.Store
	log   logrus.FieldLogger
}

func NewStoreGateway(store cart.Store, log logrus.FieldLogger) *StoreGateway {
	return &StoreGateway{store: store, log: log.WithField("component", "cart-gateway")}
}

func (g *StoreGateway) FetchLines(ctx context.Context, sessionID string) []cart.Line {
	lines, err := g.store.FetchLines(ctx, sessionID)
	if err != nil {
		g.log.WithError(err).WithField("sessionId", sessionID).Error("fetch cart lines")
		return []cart.Line{}
	}
	return lines
}

func (g *StoreGateway) InsertLine(ctx context.Context, sessionID, productID string, quantity int) (cart.Line, error) {
	return g.store.InsertLine(ctx, sessionID, productID, quantity)
}

func (g *StoreGateway) IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (cart.Line, error) {
	return g.store.IncrementExistingLine(ctx, sessionID, productID, delta)
}

func (g *StoreGateway) UpdateQuantity(ctx context.Context, id DurableID, quantity int) error {
	return g.store.UpdateQuantity(ctx, string(id), quantity)
}

func (g *StoreGateway) DeleteLine(ctx context.Context, id DurableID) error {
	return g.store.DeleteLine(ctx, string(id))
}
