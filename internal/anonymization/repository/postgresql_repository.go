// Package repository implements anonymization session persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	"github.com/allisson/anonymizer/internal/database"
	apperrors "github.com/allisson/anonymizer/internal/errors"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLSessionRepository implements anonymization session persistence for PostgreSQL databases.
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new anonymization session.
func (p *PostgreSQLSessionRepository) Create(ctx context.Context, session *anonymizationDomain.Session) error {
	querier := database.GetTx(ctx, p.db)

	mapJSON, err := json.Marshal(session.EncryptedMap)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal encrypted map")
	}

	query := `INSERT INTO anonymization_sessions (id, encrypted_map, entry_count, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err = querier.ExecContext(
		ctx,
		query,
		session.ID,
		string(mapJSON),
		session.EntryCount,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.Wrap(apperrors.ErrConflict, "anonymization session already exists")
		}
		return apperrors.Wrap(err, "failed to create anonymization session")
	}
	return nil
}

// Get retrieves an anonymization session by ID. Expired sessions are returned as-is.
func (p *PostgreSQLSessionRepository) Get(
	ctx context.Context,
	sessionID uuid.UUID,
) (*anonymizationDomain.Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, encrypted_map, entry_count, created_at, expires_at
			  FROM anonymization_sessions
			  WHERE id = $1`

	var session anonymizationDomain.Session
	var mapJSON string

	err := querier.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&mapJSON,
		&session.EntryCount,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, anonymizationDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get anonymization session")
	}

	if err := json.Unmarshal([]byte(mapJSON), &session.EncryptedMap); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal encrypted map")
	}

	return &session, nil
}

// Delete removes an anonymization session by ID.
func (p *PostgreSQLSessionRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM anonymization_sessions WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, sessionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete anonymization session")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return anonymizationDomain.ErrSessionNotFound
	}

	return nil
}

// DeleteExpired deletes sessions that expired before the specified timestamp.
// Returns the number of deleted sessions. Uses transaction support via database.GetTx().
func (p *PostgreSQLSessionRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM anonymization_sessions WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired anonymization sessions")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// CountExpired counts sessions that expired before the specified timestamp without deleting them.
func (p *PostgreSQLSessionRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM anonymization_sessions WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired anonymization sessions")
	}

	return count, nil
}

// NewPostgreSQLSessionRepository creates a new PostgreSQL anonymization session repository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}
