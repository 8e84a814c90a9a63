package events

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequence(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO event_sequences`).
		WithArgs("guest_1").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(3)))
	mock.ExpectCommit()

	seq, err := NewSequenceRepository(mock).NextSequence(context.Background(), "guest_1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextSequence_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO event_sequences`).
		WithArgs("guest_1").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err = NewSequenceRepository(mock).NextSequence(context.Background(), "guest_1")
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextSequence_RequiresPartition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewSequenceRepository(mock).NextSequence(context.Background(), "")
	assert.Error(t, err)
}
