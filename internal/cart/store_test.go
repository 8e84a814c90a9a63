package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

var lineCols = []string{"id", "session_id", "product_id", "quantity", "created_at", "updated_at"}

var joinedCols = []string{
	"id", "session_id", "product_id", "quantity", "created_at", "updated_at",
	"product_id", "name", "price", "category", "image_url", "description",
	"is_active", "is_visible", "product_created_at", "product_updated_at",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresStore_FetchLines(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM cart_items ci\s+JOIN products p ON p.id = ci.product_id\s+WHERE ci.session_id = \$1\s+ORDER BY ci.created_at, ci.id`).
		WithArgs("guest_1").
		WillReturnRows(pgxmock.NewRows(joinedCols).
			AddRow("l1", "guest_1", "p1", 2, now, now, "p1", "Nasi Goreng", int64(25000), "makanan", (*string)(nil), (*string)(nil), true, true, now, now).
			AddRow("l2", "guest_1", "p2", 1, now, now, "p2", "Es Teh", int64(5000), "minuman", (*string)(nil), (*string)(nil), true, true, now, now))

	lines, err := NewPostgresStore(mock).FetchLines(context.Background(), "guest_1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Nasi Goreng", lines[0].Product.Name)
	assert.Equal(t, product.CategoryFood, lines[0].Product.Category)
	assert.Equal(t, int64(50000), lines[0].Subtotal())
	assert.Equal(t, int64(5000), lines[1].Subtotal())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchLinesError(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("conn closed")
	mock.ExpectQuery(`FROM cart_items ci`).WithArgs("guest_1").WillReturnError(boom)

	_, err := NewPostgresStore(mock).FetchLines(context.Background(), "guest_1")
	assert.ErrorIs(t, err, boom)
}

func TestPostgresStore_InsertLine(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("created", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO cart_items \(session_id, product_id, quantity\)\s+SELECT \$1, p.id, \$3`).
			WithArgs("guest_1", "p1", 2).
			WillReturnRows(pgxmock.NewRows(lineCols).AddRow("l1", "guest_1", "p1", 2, now, now))

		l, err := NewPostgresStore(mock).InsertLine(ctx, "guest_1", "p1", 2)
		require.NoError(t, err)
		assert.Equal(t, "l1", l.ID)
		assert.Equal(t, 2, l.Quantity)
		assert.Nil(t, l.Product)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO cart_items`).
			WithArgs("guest_1", "p1", 1).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := NewPostgresStore(mock).InsertLine(ctx, "guest_1", "p1", 1)
		assert.ErrorIs(t, err, ErrLineExists)
	})

	t.Run("product not orderable", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO cart_items`).
			WithArgs("guest_1", "p9", 1).
			WillReturnError(pgx.ErrNoRows)

		_, err := NewPostgresStore(mock).InsertLine(ctx, "guest_1", "p9", 1)
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("malformed product id", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO cart_items`).
			WithArgs("guest_1", "not-a-uuid", 1).
			WillReturnError(&pgconn.PgError{Code: "22P02"})

		_, err := NewPostgresStore(mock).InsertLine(ctx, "guest_1", "not-a-uuid", 1)
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		mock := newMock(t)
		_, err := NewPostgresStore(mock).InsertLine(ctx, "guest_1", "p1", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_IncrementExistingLine(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	mock := newMock(t)
	mock.ExpectQuery(`UPDATE cart_items\s+SET quantity = quantity \+ \$3, updated_at = NOW\(\)\s+WHERE session_id = \$1 AND product_id = \$2\s+AND EXISTS \(\s+SELECT 1 FROM products p\s+WHERE p.id = cart_items.product_id AND p.is_active AND p.is_visible`).
		WithArgs("guest_1", "p1", 3).
		WillReturnRows(pgxmock.NewRows(lineCols).AddRow("l1", "guest_1", "p1", 5, now, now))
	mock.ExpectQuery(`UPDATE cart_items`).
		WithArgs("guest_1", "p2", 1).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM cart_items WHERE session_id = \$1 AND product_id = \$2\)`).
		WithArgs("guest_1", "p2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`UPDATE cart_items`).
		WithArgs("guest_1", "p3", 1).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("guest_1", "p3").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	store := NewPostgresStore(mock)
	l, err := store.IncrementExistingLine(ctx, "guest_1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, l.Quantity)

	_, err = store.IncrementExistingLine(ctx, "guest_1", "p2", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.IncrementExistingLine(ctx, "guest_1", "p3", 1)
	assert.ErrorIs(t, err, ErrProductUnavailable, "line exists but its product was hidden")

	_, err = store.IncrementExistingLine(ctx, "guest_1", "p2", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)

	mock.ExpectExec(`UPDATE cart_items\s+SET quantity = \$2`).
		WithArgs("l1", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE cart_items\s+SET quantity = \$2`).
		WithArgs("l2", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1`).
		WithArgs("l1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	store := NewPostgresStore(mock)
	require.NoError(t, store.UpdateQuantity(ctx, "l1", 4))
	assert.ErrorIs(t, store.UpdateQuantity(ctx, "l2", 4), ErrNotFound)
	require.NoError(t, store.UpdateQuantity(ctx, "l1", 0), "zero quantity deletes the line")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteLine(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1`).
		WithArgs("l1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1`).
		WithArgs("l1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1`).
		WithArgs("garbage").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	store := NewPostgresStore(mock)
	require.NoError(t, store.DeleteLine(ctx, "l1"))
	assert.ErrorIs(t, store.DeleteLine(ctx, "l1"), ErrNotFound)
	assert.ErrorIs(t, store.DeleteLine(ctx, "garbage"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ClearAllLines(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM cart_items WHERE session_id = \$1`).
		WithArgs("guest_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, NewPostgresStore(mock).ClearAllLines(context.Background(), "guest_1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
