package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare(t *testing.T) {
	t.Run("ping succeeds and handle stays open", func(t *testing.T) {
		conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectPing()

		require.NoError(t, prepare(context.Background(), conn, configForDSN()))
		assert.Equal(t, 25, conn.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed ping closes the handle", func(t *testing.T) {
		conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)

		refused := errors.New("dial tcp: connection refused")
		mock.ExpectPing().WillReturnError(refused)
		mock.ExpectClose()

		err = prepare(context.Background(), conn, configForDSN())
		require.Error(t, err)
		assert.ErrorIs(t, err, refused)

		oopsErr, ok := oops.AsOops(err)
		require.True(t, ok)
		assert.Equal(t, "DB_PING", oopsErr.Code())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
