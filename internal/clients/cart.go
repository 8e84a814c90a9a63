package clients

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cartsync"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

var cartStatus = statusMap{
	http.StatusBadRequest:          cart.ErrInvalidQuantity,
	http.StatusNotFound:            cart.ErrNotFound,
	http.StatusConflict:            cart.ErrLineExists,
	http.StatusUnprocessableEntity: cart.ErrProductUnavailable,
}

// CartClient is the cart store reached over the storefront service API.
type CartClient struct {
	c   *Client
	log logrus.FieldLogger
}

var _ cartsync.Gateway = (*CartClient)(nil)

func NewCartClient(c *Client, log logrus.FieldLogger) *CartClient {
	return &CartClient{c: c, log: log.WithField("component", "cart-client")}
}

func sessionPath(sessionID, rest string) string {
	return "/api/sessions/" + sessionID + rest
}

func linePath(id cartsync.DurableID) string {
	return "/api/cart/lines/" + string(id)
}

func (cc *CartClient) FetchLines(ctx context.Context, sessionID string) []cart.Line {
	var lines []cart.Line
	if err := cc.c.doJSON(ctx, http.MethodGet, sessionPath(sessionID, "/cart"), "", nil, &lines, cartStatus); err != nil {
		cc.log.WithError(err).WithField("sessionId", sessionID).Error("fetch cart lines")
		return []cart.Line{}
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	return lines
}

func (cc *CartClient) InsertLine(ctx context.Context, sessionID, productID string, quantity int) (cart.Line, error) {
	var l cart.Line
	req := dto.InsertLineRequest{ProductID: productID, Quantity: quantity}
	err := cc.c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/cart/lines"), "", req, &l, cartStatus)
	return l, err
}

func (cc *CartClient) IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (cart.Line, error) {
	var l cart.Line
	req := dto.IncrementLineRequest{ProductID: productID, Delta: delta}
	err := cc.c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/cart/lines/increment"), "", req, &l, cartStatus)
	return l, err
}

func (cc *CartClient) UpdateQuantity(ctx context.Context, id cartsync.DurableID, quantity int) error {
	req := dto.UpdateQuantityRequest{Quantity: quantity}
	return cc.c.doJSON(ctx, http.MethodPatch, linePath(id), "", req, nil, cartStatus)
}

func (cc *CartClient) DeleteLine(ctx context.Context, id cartsync.DurableID) error {
	return cc.c.doJSON(ctx, http.MethodDelete, linePath(id), "", nil, nil, cartStatus)
}

func (cc *CartClient) ClearAllLines(ctx context.Context, sessionID string) error {
	return cc.c.doJSON(ctx, http.MethodDelete, sessionPath(sessionID, "/cart"), "", nil, nil, cartStatus)
}
