package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/pkg/errors"
)

// Store is the transaction-record collaborator consumed by the workflows.
type Store interface {
	CreatePending(ctx context.Context, record *BlockchainTransactionRecord) error
	MarkConfirmed(ctx context.Context, id string, receipt *ledger.Receipt) error
	MarkFailed(ctx context.Context, id string, reason string) error
	LatestConfirmed(ctx context.Context, patentID string, transactionType TransactionType) (*BlockchainTransactionRecord, error)
	HasConfirmedMint(ctx context.Context, patentID string) (bool, error)
	ListByPatent(ctx context.Context, patentID string) ([]*BlockchainTransactionRecord, error)
}

var ErrInvalidTransition = errors.New("invalid status transition")

// PostgreSQLStore implements Store on a plain sql.DB. The at-most-one-mint
// invariant is backed by a partial unique index, so concurrent confirmations
// race at the database, not in application memory.
type PostgreSQLStore struct {
	db *sql.DB
}

func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

const recordColumns = `id, patent_id, transaction_type, ledger_transaction_id, channel_id, sequence_number, token_id, serial, hash_value, error_message, status, created_at, updated_at`

func (s *PostgreSQLStore) CreatePending(ctx context.Context, record *BlockchainTransactionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	record.Status = StatusPending
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blockchain_transaction_records
			(id, patent_id, transaction_type, hash_value, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.PatentID, record.TransactionType, record.HashValue, record.Status, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert pending transaction record")
	}

	return nil
}

// MarkConfirmed finalizes a pending record with the ledger receipt. The
// status predicate keeps the transition monotone; the partial unique index
// turns a lost mint race into AlreadyMintedError.
func (s *PostgreSQLStore) MarkConfirmed(ctx context.Context, id string, receipt *ledger.Receipt) error {
	if receipt == nil {
		return errors.New("receipt is required")
	}

	var serial sql.NullInt64
	if len(receipt.Serials) > 0 {
		serial = sql.NullInt64{Int64: receipt.Serials[0], Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE blockchain_transaction_records
		SET status = $2,
			ledger_transaction_id = $3,
			channel_id = NULLIF($4, ''),
			sequence_number = NULLIF($5, 0),
			token_id = NULLIF($6, ''),
			serial = $7,
			updated_at = $8
		WHERE id = $1 AND status = $9`,
		id, StatusConfirmed, receipt.TransactionID, receipt.ChannelID, int64(receipt.SequenceNumber), receipt.TokenID, serial, time.Now().UTC(), StatusPending,
	)
	if err != nil {
		return mapConfirmError(err, s.patentOf(ctx, id))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return errors.Wrapf(ErrInvalidTransition, "record %s is not pending", id)
	}

	return nil
}

// mapConfirmError classifies a confirmation failure. A unique violation
// means the partial mint index already holds a confirmed mint for the
// patent, so the losing side of a concurrent mint race observes
// AlreadyMintedError instead of a bare driver error.
func mapConfirmError(err error, patentID string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ledger.NewAlreadyMintedError(patentID)
	}
	return errors.Wrap(err, "failed to confirm transaction record")
}

// patentOf resolves the patent id of a record, falling back to the record id
// when the lookup itself fails.
func (s *PostgreSQLStore) patentOf(ctx context.Context, id string) string {
	var patentID string
	if err := s.db.QueryRowContext(ctx, `SELECT patent_id FROM blockchain_transaction_records WHERE id = $1`, id).Scan(&patentID); err != nil {
		return id
	}
	return patentID
}

func (s *PostgreSQLStore) MarkFailed(ctx context.Context, id string, reason string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE blockchain_transaction_records
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1 AND status = $5`,
		id, StatusFailed, reason, time.Now().UTC(), StatusPending,
	)
	if err != nil {
		return errors.Wrap(err, "failed to fail transaction record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return errors.Wrapf(ErrInvalidTransition, "record %s is not pending", id)
	}

	return nil
}

// LatestConfirmed returns the most recent confirmed record of the given type
// for a patent, or nil when none exists. Workflows use it as the sole source
// of truth for channel and token ids.
func (s *PostgreSQLStore) LatestConfirmed(ctx context.Context, patentID string, transactionType TransactionType) (*BlockchainTransactionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM blockchain_transaction_records
		WHERE patent_id = $1 AND transaction_type = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1`,
		patentID, transactionType, StatusConfirmed,
	)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to query latest confirmed record")
	}

	return record, nil
}

func (s *PostgreSQLStore) HasConfirmedMint(ctx context.Context, patentID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM blockchain_transaction_records
			WHERE patent_id = $1 AND transaction_type = $2 AND status = $3
		)`,
		patentID, TransactionTypeNFTMint, StatusConfirmed,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check for confirmed mint")
	}

	return exists, nil
}

// ListByPatent returns every record of a patent, newest first.
func (s *PostgreSQLStore) ListByPatent(ctx context.Context, patentID string) ([]*BlockchainTransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM blockchain_transaction_records
		WHERE patent_id = $1
		ORDER BY created_at DESC`,
		patentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transaction records")
	}
	defer rows.Close()

	var records []*BlockchainTransactionRecord
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, errors.Wrap(scanErr, "failed to scan transaction record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate transaction records")
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*BlockchainTransactionRecord, error) {
	var record BlockchainTransactionRecord
	err := row.Scan(
		&record.ID,
		&record.PatentID,
		&record.TransactionType,
		&record.LedgerTransactionID,
		&record.ChannelID,
		&record.SequenceNumber,
		&record.TokenID,
		&record.Serial,
		&record.HashValue,
		&record.ErrorMessage,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
