package repositories

import (
	"errors"
	"testing"
	"time"

	"estate_backend/internal/models"
	"estate_backend/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_FindByToken(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTokenRepository()

	mock.ExpectQuery(`SELECT \* FROM "auth_tokens" WHERE kind = \$1 AND token = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByToken(db, models.TokenKindPasswordReset, "missing")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	storeErr := errors.New("connection reset by peer")
	mock.ExpectQuery(`SELECT \* FROM "auth_tokens"`).WillReturnError(storeErr)

	_, err = repo.FindByToken(db, models.TokenKindPasswordReset, "abc")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrTokenNotFound, "сбой хранилища не должен выглядеть как отсутствие токена")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteByIDReportsWinner(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTokenRepository()

	mock.ExpectExec(`DELETE FROM "auth_tokens" WHERE id = \$1`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "auth_tokens" WHERE id = \$1`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := repo.DeleteByID(db, "tok-1")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.DeleteByID(db, "tok-1")
	require.NoError(t, err)
	assert.False(t, won, "второй удаляющий проигрывает")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM "auth_tokens" WHERE expires_at < \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewTokenRepository().DeleteExpired(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
