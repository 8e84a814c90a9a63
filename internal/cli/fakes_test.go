package cli

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

var menu = []product.Product{
	{ID: "p1", Name: "Nasi Goreng", Price: 25000, Category: product.CategoryFood, IsActive: true, IsVisible: true},
	{ID: "p2", Name: "Es Teh", Price: 5000, Category: product.CategoryDrink, IsActive: true, IsVisible: true},
	{ID: "p3", Name: "Rendang", Price: 40000, Category: product.CategoryFood, IsActive: false, IsVisible: true},
}

// shop is an in-memory storefront backend: catalog, cart store and checkout.
type shop struct {
	mu       sync.Mutex
	products map[string]product.Product
	lines    []cart.Line
	nextID   int
	orders   []checkout.Request
}

func newShop() *shop {
	s := &shop{products: map[string]product.Product{}}
	for _, p := range menu {
		s.products[p.ID] = p
	}
	return s
}

func (s *shop) serve(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.Deps{
		Logger:   logger,
		Products: catalogOf{s},
		Carts:    s,
		Checkout: checkoutOf{s},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *shop) FetchLines(ctx context.Context, sessionID string) ([]cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []cart.Line{}
	for _, l := range s.lines {
		if l.SessionID == sessionID {
			p := s.products[l.ProductID]
			l.Product = &p
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *shop) InsertLine(ctx context.Context, sessionID, productID string, quantity int) (cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity < 1 {
		return cart.Line{}, cart.ErrInvalidQuantity
	}
	if p, ok := s.products[productID]; !ok || !p.Orderable() {
		return cart.Line{}, cart.ErrProductUnavailable
	}
	for _, l := range s.lines {
		if l.SessionID == sessionID && l.ProductID == productID {
			return cart.Line{}, cart.ErrLineExists
		}
	}
	s.nextID++
	l := cart.Line{ID: fmt.Sprintf("line-%d", s.nextID), SessionID: sessionID, ProductID: productID, Quantity: quantity}
	s.lines = append(s.lines, l)
	return l, nil
}

func (s *shop) IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines {
		if l.SessionID == sessionID && l.ProductID == productID {
			s.lines[i].Quantity += delta
			return s.lines[i], nil
		}
	}
	return cart.Line{}, cart.ErrNotFound
}

func (s *shop) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.DeleteLine(ctx, lineID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines {
		if l.ID == lineID {
			s.lines[i].Quantity = quantity
			return nil
		}
	}
	return cart.ErrNotFound
}

func (s *shop) DeleteLine(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines {
		if l.ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
	}
	return cart.ErrNotFound
}

func (s *shop) ClearAllLines(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.SessionID != sessionID {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	return nil
}

func (s *shop) quantities(sessionID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int{}
	for _, l := range s.lines {
		if l.SessionID == sessionID {
			out[l.ProductID] = l.Quantity
		}
	}
	return out
}

type catalogOf struct{ s *shop }

func (c catalogOf) List(ctx context.Context, category *product.Category) ([]product.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := []product.Product{}
	for _, p := range c.s.products {
		if p.Orderable() && (category == nil || p.Category == *category) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c catalogOf) Get(ctx context.Context, id string) (product.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	p, ok := c.s.products[id]
	if !ok || !p.Orderable() {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func (c catalogOf) ListAll(ctx context.Context) ([]product.Product, error) { return nil, nil }

func (c catalogOf) Create(ctx context.Context, np product.NewProduct) (product.Product, error) {
	return product.Product{}, nil
}

func (c catalogOf) Update(ctx context.Context, id string, patch product.Patch) (product.Product, error) {
	return product.Product{}, nil
}

func (c catalogOf) Delete(ctx context.Context, id string) error { return nil }

// checkoutOf runs the real checkout service over the shop's cart with an
// in-memory order table.
type checkoutOf struct{ s *shop }

func (c checkoutOf) Checkout(ctx context.Context, req checkout.Request) (checkout.Order, error) {
	logger, _ := test.NewNullLogger()
	repo := &orderTable{}
	o, err := checkout.NewService(repo, c.s, events.NopPublisher{}, logger).Checkout(ctx, req)
	if err == nil {
		c.s.mu.Lock()
		c.s.orders = append(c.s.orders, req)
		c.s.mu.Unlock()
	}
	return o, err
}

func (c checkoutOf) Get(ctx context.Context, id string) (checkout.Order, error) {
	return checkout.Order{}, checkout.ErrNotFound
}

func (c checkoutOf) MarkPaid(ctx context.Context, id, reference string) (checkout.Order, error) {
	return checkout.Order{}, checkout.ErrNotFound
}

type orderTable struct{}

func (orderTable) Create(ctx context.Context, o *checkout.Order) error {
	o.ID = "order-1"
	o.Status = checkout.StatusPending
	return nil
}

func (orderTable) Get(ctx context.Context, id string) (checkout.Order, error) {
	return checkout.Order{}, checkout.ErrNotFound
}

func (orderTable) MarkPaid(ctx context.Context, id, reference string) error { return nil }
