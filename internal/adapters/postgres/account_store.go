package postgres

import (
	"AsaBank/internal/adapters/filestore"
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type accountStore struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.AccountStore = (*accountStore)(nil) // Ensure compliance

// NewAccountStore creates an AccountStore on the accounts table.
// It has the same full-rewrite semantics as the flat-file store.
func NewAccountStore(db *DB, baseLogger *zerolog.Logger) ports.AccountStore {
	return &accountStore{
		db:  db,
		log: baseLogger.With().Str("component", "account_store").Logger(),
	}
}

// Load reads every row. Rows are decoded with the flat-file record rules,
// so a bad row fails the same way a bad line does.
func (s *accountStore) Load(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT id, passcode, category, balance::text FROM accounts ORDER BY id`

	rows, err := s.db.pool.Query(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to query accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	rowNo := 0
	for rows.Next() {
		rowNo++
		var id, passcode, category, balance string
		if err := rows.Scan(&id, &passcode, &category, &balance); err != nil {
			s.log.Error().Err(err).Msg("Failed to scan account row")
			return nil, err
		}

		record := strings.Join([]string{id, passcode, category, balance}, ",")
		acct, err := filestore.DecodeRecord(record)
		if err != nil {
			s.log.Error().Err(err).Str("account_id", id).Msg("Failed to decode account row")
			return nil, &domain.ParseError{Line: rowNo, Record: record, Err: err}
		}
		accounts = append(accounts, acct)
	}

	if rows.Err() != nil {
		s.log.Error().Err(rows.Err()).Msg("Error iterating account rows")
		return nil, rows.Err()
	}

	return accounts, nil
}

// Save replaces the table contents in one transaction.
func (s *accountStore) Save(ctx context.Context, accounts []*domain.Account) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to begin transaction")
		return err
	}
	// No-op after Commit
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear accounts")
		return err
	}

	batch := &pgx.Batch{}
	for _, acct := range accounts {
		batch.Queue(
			`INSERT INTO accounts (id, passcode, category, balance) VALUES ($1, $2, $3, $4::text::numeric)`,
			acct.ID,
			acct.Passcode,
			string(acct.Category),
			acct.Balance.String(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		s.log.Error().Err(err).Int("count", len(accounts)).Msg("Failed to insert accounts")
		return fmt.Errorf("insert accounts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error().Err(err).Msg("Failed to commit accounts")
		return err
	}

	s.log.Debug().Int("count", len(accounts)).Msg("Accounts saved")
	return nil
}
