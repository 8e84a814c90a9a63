package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

// Catalog is the storefront read path.
type Catalog interface {
	List(ctx context.Context, category *Category) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
}

// Repository adds the admin mutations on top of the catalog reads.
type Repository interface {
	Catalog
	ListAll(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, np NewProduct) (Product, error)
	Update(ctx context.Context, id string, patch Patch) (Product, error)
	Delete(ctx context.Context, id string) error
}

const productColumns = `id::text AS id, name, price, category, image_url, description, is_active, is_visible, created_at, updated_at`

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context, category *Category) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active AND is_visible`
	args := []any{}
	if category != nil {
		query += ` AND category = $1`
		args = append(args, string(*category))
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active AND is_visible`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsInvalidInput(err) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query all products: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, np NewProduct) (Product, error) {
	if err := np.Validate(); err != nil {
		return Product{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, price, category, image_url, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		np.Name, np.Price, string(np.Category), np.ImageURL, np.Description)
	p, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// Update reads the current row (regardless of visibility), applies the
// patch and writes the full row back.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	current, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsInvalidInput(err) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("load product %s: %w", id, err)
	}

	if err := patch.Apply(&current); err != nil {
		return Product{}, err
	}

	row = r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, price = $3, category = $4, image_url = $5, description = $6,
		    is_active = $7, is_visible = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, current.Name, current.Price, string(current.Category), current.ImageURL, current.Description,
		current.IsActive, current.IsVisible)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if db.IsInvalidInput(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p        Product
		category string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Price, &category, &p.ImageURL, &p.Description,
		&p.IsActive, &p.IsVisible, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.Category = Category(category)
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
