package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// Carts is the slice of the cart store checkout needs.
type Carts interface {
	FetchLines(ctx context.Context, sessionID string) ([]cart.Line, error)
	ClearAllLines(ctx context.Context, sessionID string) error
}

type Service struct {
	repo  Repository
	carts Carts
	pub   events.Publisher
	log   logrus.FieldLogger
}

func NewService(repo Repository, carts Carts, pub events.Publisher, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, carts: carts, pub: pub, log: log.WithField("component", "checkout")}
}

// Checkout turns the session's cart into a pending order. Prices are taken
// from the stored cart, not from the caller. Once the order is stored the
// cart is cleared; a failure to publish or clear is logged and does not
// undo the order.
func (s *Service) Checkout(ctx context.Context, req Request) (Order, error) {
	if err := req.Validate(); err != nil {
		return Order{}, err
	}

	lines, err := s.carts.FetchLines(ctx, req.SessionID)
	if err != nil {
		return Order{}, fmt.Errorf("load cart: %w", err)
	}

	o := Order{
		SessionID:     req.SessionID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: req.CustomerPhone,
		TableNumber:   req.TableNumber,
		Items:         make([]Item, 0, len(lines)),
	}
	for _, l := range lines {
		if l.Product == nil {
			continue
		}
		if !l.Product.Orderable() {
			// Hidden or deactivated after it was added.
			return Order{}, fmt.Errorf("%w: %s", cart.ErrProductUnavailable, l.Product.Name)
		}
		it := Item{
			ProductID:    l.ProductID,
			ProductName:  l.Product.Name,
			ProductPrice: l.Product.Price,
			Quantity:     l.Quantity,
			Subtotal:     l.Subtotal(),
		}
		o.TotalAmount += it.Subtotal
		o.Items = append(o.Items, it)
	}
	if len(o.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	if err := s.repo.Create(ctx, &o); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{"orderId": o.ID, "sessionId": o.SessionID})
	if err := s.publish(ctx, o); err != nil {
		log.WithError(err).Warn("publish CartCheckedOut failed")
	}
	if err := s.carts.ClearAllLines(ctx, o.SessionID); err != nil {
		log.WithError(err).Error("clear cart after checkout failed")
	}

	log.WithField("totalAmount", o.TotalAmount).Info("order created")
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// MarkPaid records a completed payment and returns the updated order.
func (s *Service) MarkPaid(ctx context.Context, id, reference string) (Order, error) {
	if strings.TrimSpace(reference) == "" {
		return Order{}, errors.Join(ErrInvalidRequest, errors.New("payment reference is required"))
	}
	if err := s.repo.MarkPaid(ctx, id, reference); err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) publish(ctx context.Context, o Order) error {
	payload := events.CartCheckedOutPayload{
		OrderID:     o.ID,
		SessionID:   o.SessionID,
		TableNumber: o.TableNumber,
		TotalAmount: o.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, events.CartCheckedOutItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.ProductPrice,
		})
	}
	meta := events.EventMeta{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  o.SessionID,
	}
	return s.pub.PublishCartCheckedOut(ctx, meta, payload)
}
