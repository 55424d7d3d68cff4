package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	"github.com/allisson/anonymizer/internal/database"
	apperrors "github.com/allisson/anonymizer/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLSessionRepository implements anonymization session persistence for MySQL databases.
// Session IDs are stored as BINARY(16).
type MySQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new anonymization session.
func (m *MySQLSessionRepository) Create(ctx context.Context, session *anonymizationDomain.Session) error {
	querier := database.GetTx(ctx, m.db)

	id, err := session.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal session id")
	}

	mapJSON, err := json.Marshal(session.EncryptedMap)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal encrypted map")
	}

	query := `INSERT INTO anonymization_sessions (id, encrypted_map, entry_count, created_at, expires_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(mapJSON),
		session.EntryCount,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return apperrors.Wrap(apperrors.ErrConflict, "anonymization session already exists")
		}
		return apperrors.Wrap(err, "failed to create anonymization session")
	}
	return nil
}

// Get retrieves an anonymization session by ID. Expired sessions are returned as-is.
func (m *MySQLSessionRepository) Get(ctx context.Context, sessionID uuid.UUID) (*anonymizationDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := sessionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal session id")
	}

	query := `SELECT id, encrypted_map, entry_count, created_at, expires_at
			  FROM anonymization_sessions
			  WHERE id = ?`

	var session anonymizationDomain.Session
	var rawID []byte
	var mapJSON string

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	if err := session.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal session id")
	}

	if err := json.Unmarshal([]byte(mapJSON), &session.EncryptedMap); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal encrypted map")
	}

	return &session, nil
}

// Delete removes an anonymization session by ID.
func (m *MySQLSessionRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := sessionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal session id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM anonymization_sessions WHERE id = ?`, id)
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
func (m *MySQLSessionRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM anonymization_sessions WHERE expires_at < ?`, olderThan)
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
func (m *MySQLSessionRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM anonymization_sessions WHERE expires_at < ?`, olderThan).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired anonymization sessions")
	}

	return count, nil
}

// NewMySQLSessionRepository creates a new MySQL anonymization session repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}
