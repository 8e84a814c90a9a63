package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	MarkPaid(ctx context.Context, id, reference string) error
}

const orderColumns = `id::text, session_id, customer_name, customer_phone, table_number, total_amount,
	status, payment_method, payment_reference, created_at, updated_at`

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores the order and its items in one transaction and fills in
// the generated id, status and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (session_id, customer_name, customer_phone, table_number, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, status, created_at, updated_at`,
		o.SessionID, o.CustomerName, o.CustomerPhone, o.TableNumber, o.TotalAmount, string(StatusPending))

	var status string
	if err := row.Scan(&o.ID, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("insert order: %w", err)
	}
	o.Status = Status(status)

	for _, it := range o.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, it.ProductID, it.ProductName, it.ProductPrice, it.Quantity, it.Subtotal)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Order, error) {
	var (
		o      Order
		status string
	)
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.SessionID, &o.CustomerName, &o.CustomerPhone, &o.TableNumber, &o.TotalAmount,
			&status, &o.PaymentMethod, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsInvalidInput(err) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("select order: %w", err)
	}
	o.Status = Status(status)

	rows, err := r.pool.Query(ctx, `
		SELECT product_id::text, product_name, product_price, quantity, subtotal
		FROM order_items WHERE order_id = $1
		ORDER BY created_at, id`, o.ID)
	if err != nil {
		return Order{}, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return Order{}, fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Order{}, fmt.Errorf("rows: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, id, reference string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2, payment_method = $3, payment_reference = $4, updated_at = NOW()
		WHERE id = $1`,
		id, string(StatusPaid), PaymentMethodXendit, reference)
	if db.IsInvalidInput(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update order payment %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
