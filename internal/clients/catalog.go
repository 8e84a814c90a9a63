package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

var catalogStatus = statusMap{
	http.StatusBadRequest: product.ErrInvalidCategory,
	http.StatusNotFound:   product.ErrNotFound,
}

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListProducts(ctx context.Context, category *product.Category) ([]product.Product, error) {
	var q string
	if category != nil {
		q = url.Values{"category": {string(*category)}}.Encode()
	}
	var out []product.Product
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/products", q, nil, &out, catalogStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CatalogClient) GetProduct(ctx context.Context, id string) (product.Product, error) {
	var p product.Product
	err := cc.c.doJSON(ctx, http.MethodGet, "/api/products/"+id, "", nil, &p, catalogStatus)
	return p, err
}
