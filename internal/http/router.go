package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

const ServiceName = "storefront-service"

// Checkout is the order side of the API.
type Checkout interface {
	Checkout(ctx context.Context, req checkout.Request) (checkout.Order, error)
	Get(ctx context.Context, id string) (checkout.Order, error)
	MarkPaid(ctx context.Context, id, reference string) (checkout.Order, error)
}

type Deps struct {
	Logger   logrus.FieldLogger
	Products product.Repository
	Carts    cart.Store
	Checkout Checkout

	AdminUsername  string
	AdminPassword  string
	RequestTimeout time.Duration

	// Empty disables CORS headers.
	AllowOrigins []string
}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		products: d.Products,
		carts:    d.Carts,
		checkout: d.Checkout,
		log:      d.Logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if len(d.AllowOrigins) > 0 {
		r.Use(middleware.CORS(d.AllowOrigins))
	}
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.Recover(d.Logger))
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productId}", h.GetProduct)

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/cart", h.FetchLines)
			r.Delete("/cart", h.ClearAllLines)
			r.Post("/cart/lines", h.InsertLine)
			r.Post("/cart/lines/increment", h.IncrementExistingLine)
			r.Post("/checkout", h.Checkout)
		})

		r.Patch("/cart/lines/{lineId}", h.UpdateQuantity)
		r.Delete("/cart/lines/{lineId}", h.DeleteLine)

		r.Get("/orders/{orderId}", h.GetOrder)
		r.Post("/orders/{orderId}/payment", h.MarkPaid)

		r.Route("/admin/products", func(r chi.Router) {
			r.Use(chimw.BasicAuth("storefront-admin", map[string]string{d.AdminUsername: d.AdminPassword}))
			r.Get("/", h.AdminListProducts)
			r.Post("/", h.AdminCreateProduct)
			r.Patch("/{productId}", h.AdminUpdateProduct)
			r.Delete("/{productId}", h.AdminDeleteProduct)
		})
	})

	return otelhttp.NewHandler(r, ServiceName)
}
