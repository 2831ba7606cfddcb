package filestore

import (
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// fileStore implements ports.AccountStore on a flat text file,
// one record per line.
type fileStore struct {
	path string
	log  zerolog.Logger
}

var _ ports.AccountStore = (*fileStore)(nil) // Ensure compliance

// NewFileStore creates a store backed by the file at path.
// The file does not need to exist yet.
func NewFileStore(path string, baseLogger *zerolog.Logger) ports.AccountStore {
	return &fileStore{
		path: path,
		log:  baseLogger.With().Str("component", "file_store").Str("path", path).Logger(),
	}
}

// Load reads every record. A missing file means no accounts.
func (s *fileStore) Load(ctx context.Context) ([]*domain.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info().Msg("Account file not found, starting empty")
			return nil, nil
		}
		s.log.Error().Err(err).Msg("Failed to open account file")
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var accounts []*domain.Account
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		acct, err := DecodeRecord(line)
		if err != nil {
			s.log.Error().Err(err).Int("line", lineNo).Msg("Failed to decode account record")
			return nil, &domain.ParseError{Line: lineNo, Record: line, Err: err}
		}
		accounts = append(accounts, acct)
	}
	if err := scanner.Err(); err != nil {
		s.log.Error().Err(err).Msg("Failed to read account file")
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	s.log.Debug().Int("count", len(accounts)).Msg("Accounts loaded")
	return accounts, nil
}

// Save rewrites the file with one record per account, sorted by id.
// The records go to a temp file that is renamed over the target.
func (s *fileStore) Save(ctx context.Context, accounts []*domain.Account) error {
	sorted := slices.Clone(accounts)
	slices.SortFunc(sorted, func(a, b *domain.Account) int {
		return strings.Compare(a.ID, b.ID)
	})

	var sb strings.Builder
	for _, acct := range sorted {
		sb.WriteString(EncodeRecord(acct))
		sb.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create temp file")
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.log.Error().Err(err).Msg("Failed to write account records")
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.log.Error().Err(err).Msg("Failed to close temp file")
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		s.log.Error().Err(err).Msg("Failed to replace account file")
		return fmt.Errorf("save %s: %w", s.path, err)
	}

	s.log.Debug().Int("count", len(sorted)).Msg("Accounts saved")
	return nil
}
