package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

var orderStatus = statusMap{
	http.StatusBadRequest: checkout.ErrInvalidRequest,
	http.StatusNotFound:   checkout.ErrNotFound,
	http.StatusConflict:   checkout.ErrEmptyCart,

	http.StatusUnprocessableEntity: cart.ErrProductUnavailable,
}

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) Checkout(ctx context.Context, sessionID string, req dto.CheckoutRequest) (checkout.Order, error) {
	var o checkout.Order
	err := oc.c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/checkout"), "", req, &o, orderStatus)
	return o, err
}

func (oc *OrderClient) GetOrder(ctx context.Context, id string) (checkout.Order, error) {
	var o checkout.Order
	err := oc.c.doJSON(ctx, http.MethodGet, "/api/orders/"+id, "", nil, &o, orderStatus)
	return o, err
}
