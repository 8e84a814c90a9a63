package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

// Store is the persisted cart. Every method reports failures as errors;
// see Gateway for the contract the synchronization engine consumes.
type Store interface {
	FetchLines(ctx context.Context, sessionID string) ([]Line, error)
	InsertLine(ctx context.Context, sessionID, productID string, quantity int) (Line, error)
	IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (Line, error)
	UpdateQuantity(ctx context.Context, lineID string, quantity int) error
	DeleteLine(ctx context.Context, lineID string) error
	ClearAllLines(ctx context.Context, sessionID string) error
}

const lineColumns = `id::text, session_id, product_id::text, quantity, created_at, updated_at`

type PostgresStore struct {
	pool db.Pool
}

func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FetchLines(ctx context.Context, sessionID string) ([]Line, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ci.id::text, ci.session_id, ci.product_id::text, ci.quantity, ci.created_at, ci.updated_at,
		       p.id::text, p.name, p.price, p.category, p.image_url, p.description,
		       p.is_active, p.is_visible, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.session_id = $1
		ORDER BY ci.created_at, ci.id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var (
			l        Line
			p        product.Product
			category string
		)
		if err := rows.Scan(
			&l.ID, &l.SessionID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
			&p.ID, &p.Name, &p.Price, &category, &p.ImageURL, &p.Description,
			&p.IsActive, &p.IsVisible, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		p.Category = product.Category(category)
		l.Product = &p
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

// InsertLine creates the line for (sessionID, productID). Only orderable
// products can be inserted; a second insert for the same pair fails with
// ErrLineExists.
func (s *PostgresStore) InsertLine(ctx context.Context, sessionID, productID string, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO cart_items (session_id, product_id, quantity)
		SELECT $1, p.id, $3
		FROM products p
		WHERE p.id = $2 AND p.is_active AND p.is_visible
		RETURNING `+lineColumns,
		sessionID, productID, quantity)

	l, err := scanLine(row)
	switch {
	case err == nil:
		return l, nil
	case errors.Is(err, pgx.ErrNoRows), db.IsInvalidInput(err), db.IsForeignKeyViolation(err):
		return Line{}, ErrProductUnavailable
	case db.IsUniqueViolation(err):
		return Line{}, ErrLineExists
	default:
		return Line{}, fmt.Errorf("insert cart line: %w", err)
	}
}

// IncrementExistingLine adds delta to the stored quantity while the product
// is still orderable. Concurrent writers for the same session are
// last-write-wins.
func (s *PostgresStore) IncrementExistingLine(ctx context.Context, sessionID, productID string, delta int) (Line, error) {
	if delta < 1 {
		return Line{}, ErrInvalidQuantity
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE cart_items
		SET quantity = quantity + $3, updated_at = NOW()
		WHERE session_id = $1 AND product_id = $2
		  AND EXISTS (
			SELECT 1 FROM products p
			WHERE p.id = cart_items.product_id AND p.is_active AND p.is_visible
		  )
		RETURNING `+lineColumns,
		sessionID, productID, delta)

	l, err := scanLine(row)
	switch {
	case err == nil:
		return l, nil
	case db.IsInvalidInput(err):
		return Line{}, ErrNotFound
	case !errors.Is(err, pgx.ErrNoRows):
		return Line{}, fmt.Errorf("increment cart line: %w", err)
	}

	// Nothing updated: tell a missing line from one whose product went away.
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cart_items WHERE session_id = $1 AND product_id = $2)`,
		sessionID, productID).Scan(&exists); err != nil {
		return Line{}, fmt.Errorf("increment cart line: %w", err)
	}
	if exists {
		return Line{}, ErrProductUnavailable
	}
	return Line{}, ErrNotFound
}

// UpdateQuantity overwrites the quantity of a line; quantity <= 0 deletes it.
func (s *PostgresStore) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.DeleteLine(ctx, lineID)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
	`, lineID, quantity)
	if db.IsInvalidInput(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update cart line %s: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteLine(ctx context.Context, lineID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, lineID)
	if db.IsInvalidInput(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete cart line %s: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ClearAllLines(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clear cart for session %s: %w", sessionID, err)
	}
	return nil
}

func scanLine(row pgx.Row) (Line, error) {
	var l Line
	err := row.Scan(&l.ID, &l.SessionID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}
