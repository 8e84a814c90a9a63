package cartsync

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

const testSession = "guest_test"

var (
	nasiGoreng = product.Product{ID: "prod-x", Name: "Nasi Goreng", Price: 10000, Category: product.CategoryFood, IsActive: true, IsVisible: true}
	esTeh      = product.Product{ID: "prod-y", Name: "Es Teh", Price: 5000, Category: product.CategoryDrink, IsActive: true, IsVisible: true}
	sateAyam   = product.Product{ID: "prod-z", Name: "Sate Ayam", Price: 30000, Category: product.CategoryFood, IsActive: true, IsVisible: true}
)

// memGateway is an in-memory store with the same contract as the Postgres
// one. Setting hold parks every mutation until the channel is closed.
type memGateway struct {
	mu       sync.Mutex
	products map[string]product.Product
	rows     []cart.Line
	seq      int
	fail     map[string]error
	calls    []string
	hold     chan struct{}
	gates    map[string]chan struct{}
	now      time.Time
}

func newMemGateway(products ...product.Product) *memGateway {
	g := &memGateway{
		products: map[string]product.Product{},
		fail:     map[string]error{},
		gates:    map[string]chan struct{}{},
		now:      time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, p := range products {
		g.products[p.ID] = p
	}
	return g
}

// seed stores a row directly, bypassing the engine.
func (g *memGateway) seed(productID string, qty int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.products[productID]
	g.seq++
	id := fmt.Sprintf("line-%d", g.seq)
	g.rows = append(g.rows, cart.Line{ID: id, SessionID: testSession, ProductID: productID, Quantity: qty, Product: &p, CreatedAt: g.now, UpdatedAt: g.now})
	return id
}

func (g *memGateway) setQuantity(lineID string, qty int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.rows {
		if g.rows[i].ID == lineID {
			g.rows[i].Quantity = qty
		}
	}
}

func (g *memGateway) failOn(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[op] = err
}

// holdCalls parks mutations until release is called.
func (g *memGateway) holdCalls() (release func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.hold = ch
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		g.hold = nil
		g.mu.Unlock()
		close(ch)
	}
}

// holdOp parks calls of one operation until release is called.
func (g *memGateway) holdOp(op string) (release func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.gates[op] = ch
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.gates, op)
		g.mu.Unlock()
		close(ch)
	}
}

func (g *memGateway) callLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *memGateway) enter(ctx context.Context, op string) error {
	g.mu.Lock()
	g.calls = append(g.calls, op)
	err := g.fail[op]
	hold := g.hold
	if gate, ok := g.gates[op]; ok {
		hold = gate
	}
	g.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (g *memGateway) FetchLines(ctx context.Context, sessionID string) []cart.Line {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "fetch")
	if g.fail["fetch"] != nil {
		return []cart.Line{}
	}

	out := []cart.Line{}
	for _, r := range g.rows {
		if r.SessionID != sessionID {
			continue
		}
		p := *r.Product
		r.Product = &p
		out = append(out, r)
	}
	return out
}

func (g *memGateway) InsertLine(ctx context.Context, sessionID, productID string, quantity int) (cart.Line, error) {
	if err := g.enter(ctx, "insert"); err != nil {
		return cart.Line{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, r := range g.rows {
		if r.SessionID == sessionID && r.ProductID == productID {
			return cart.Line{}, cart.ErrLineExists
		}
	}
	p, ok := g.products[productID]
	if !ok {
		return cart.Line{}, cart.ErrProductUnavailable
	}
	g.seq++
	row := cart.Line{ID: fmt.Sprintf("line-%d", g.seq), SessionID: sessionID, ProductID: productID, Quantity: quantity, Product: &p, CreatedAt: g.now, UpdatedAt: g.now}
	g.rows = append(g.rows, row)

	row.Product = nil
	return row, nil
}

func (g *memGateway) IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (cart.Line, error) {
	if err := g.enter(ctx, "increment"); err != nil {
		return cart.Line{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.rows {
		if g.rows[i].SessionID == sessionID && g.rows[i].ProductID == productID {
			g.rows[i].Quantity += delta
			row := g.rows[i]
			row.Product = nil
			return row, nil
		}
	}
	return cart.Line{}, cart.ErrNotFound
}

func (g *memGateway) UpdateQuantity(ctx context.Context, id DurableID, quantity int) error {
	if err := g.enter(ctx, "update"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.rows {
		if g.rows[i].ID == string(id) {
			g.rows[i].Quantity = quantity
			return nil
		}
	}
	return cart.ErrNotFound
}

func (g *memGateway) DeleteLine(ctx context.Context, id DurableID) error {
	if err := g.enter(ctx, "delete"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.rows {
		if g.rows[i].ID == string(id) {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return cart.ErrNotFound
}

type notificationLog struct {
	mu   sync.Mutex
	seen []Notification
}

func (n *notificationLog) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, note)
}

func (n *notificationLog) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.seen...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// zeroIncrements answers every increment as if the row dropped to zero.
type zeroIncrements struct {
	*memGateway
}

func (z zeroIncrements) IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (cart.Line, error) {
	rec, err := z.memGateway.IncrementExistingLine(ctx, sessionID, productID, delta)
	rec.Quantity = 0
	return rec, err
}
