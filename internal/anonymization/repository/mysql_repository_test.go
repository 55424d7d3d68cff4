package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	apperrors "github.com/allisson/anonymizer/internal/errors"
)

func TestMySQLSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	session := newTestSession()
	rawID, err := session.ID.MarshalBinary()
	require.NoError(t, err)
	insert := regexp.QuoteMeta("INSERT INTO anonymization_sessions")

	t.Run("Success_StoresBinaryID", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(insert).
			WithArgs(rawID, `{"ANON_aaaaaaaa":"c2VhbGVk"}`, 1, session.CreatedAt, session.ExpiresAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLSessionRepository(db)
		require.NoError(t, repo.Create(ctx, session))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEntryIsConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(insert).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		repo := NewMySQLSessionRepository(db)
		assert.ErrorIs(t, repo.Create(ctx, session), apperrors.ErrConflict)
	})
}

func TestMySQLSessionRepository_Get(t *testing.T) {
	ctx := context.Background()
	session := newTestSession()
	rawID, err := session.ID.MarshalBinary()
	require.NoError(t, err)
	query := regexp.QuoteMeta("SELECT id, encrypted_map, entry_count, created_at, expires_at")

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"id", "encrypted_map", "entry_count", "created_at", "expires_at"}).
			AddRow(rawID, `{"ANON_aaaaaaaa":"c2VhbGVk"}`, int64(1), session.CreatedAt, session.ExpiresAt)
		mock.ExpectQuery(query).WithArgs(rawID).WillReturnRows(rows)

		repo := NewMySQLSessionRepository(db)
		got, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(rawID).WillReturnError(sql.ErrNoRows)

		repo := NewMySQLSessionRepository(db)
		got, err := repo.Get(ctx, session.ID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, anonymizationDomain.ErrSessionNotFound)
	})
}

func TestMySQLSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.Must(uuid.NewV7())
	rawID, err := sessionID.MarshalBinary()
	require.NoError(t, err)
	stmt := regexp.QuoteMeta("DELETE FROM anonymization_sessions WHERE id = ?")

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(stmt).WithArgs(rawID).WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLSessionRepository(db)
		assert.NoError(t, repo.Delete(ctx, sessionID))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(stmt).WithArgs(rawID).WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewMySQLSessionRepository(db)
		assert.ErrorIs(t, repo.Delete(ctx, sessionID), anonymizationDomain.ErrSessionNotFound)
	})
}

func TestMySQLSessionRepository_ExpiredSessions(t *testing.T) {
	ctx := context.Background()
	olderThan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM anonymization_sessions WHERE expires_at < ?")).
		WithArgs(olderThan).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM anonymization_sessions WHERE expires_at < ?")).
		WithArgs(olderThan).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewMySQLSessionRepository(db)

	count, err := repo.CountExpired(ctx, olderThan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := repo.DeleteExpired(ctx, olderThan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = repo.DeleteExpired(ctx, time.Time{})
	assert.Error(t, err)
	_, err = repo.CountExpired(ctx, time.Time{})
	assert.Error(t, err)
}
