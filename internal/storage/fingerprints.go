package storage

import (
	"context"
	"fmt"
)

// IsFingerprintSeen reports whether a message fingerprint has been processed
// before.
func (s *SQLiteStorage) IsFingerprintSeen(ctx context.Context, fingerprint string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(fingerprint, "fingerprint"); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM fingerprints WHERE fingerprint = ?`, fingerprint).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}

	return count > 0, nil
}

// MarkFingerprintSeen records a fingerprint. Inserting an already-present
// fingerprint is a no-op, so the call is idempotent.
func (s *SQLiteStorage) MarkFingerprintSeen(ctx context.Context, fingerprint string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(fingerprint, "fingerprint"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO fingerprints (fingerprint) VALUES (?)`, fingerprint)
	if err != nil {
		return fmt.Errorf("failed to mark fingerprint: %w", err)
	}

	return nil
}

// ListFingerprints enumerates the current identity set, for diagnostics.
func (s *SQLiteStorage) ListFingerprints(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint FROM fingerprints ORDER BY seen_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fingerprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fingerprints []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		fingerprints = append(fingerprints, fp)
	}

	return fingerprints, rows.Err()
}

// ClearFingerprints empties the identity set. Debugging and tests only:
// previously processed messages become reprocessable.
func (s *SQLiteStorage) ClearFingerprints(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM fingerprints`); err != nil {
		return fmt.Errorf("failed to clear fingerprints: %w", err)
	}

	return nil
}
