package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/avrconf/internal/ir"
)

const recordColumns = `kind, record_id, parent, description, signature, seq, body`

func scanRecord(row interface{ Scan(...any) error }) (StoredRecord, error) {
	var (
		rec  StoredRecord
		kind string
		sig  sql.NullString
		body string
	)
	err := row.Scan(&kind, &rec.ID, &rec.Parent, &rec.Description, &sig, &rec.Seq, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return StoredRecord{}, fmt.Errorf("scan record: %w", err)
	}
	rec.Kind = ir.Kind(kind)
	rec.Signature = sig.String
	rec.Body = []byte(body)
	return rec, nil
}

// ReadSummary returns the id → description listing of one namespace of a
// snapshot in declaration order.
// Returns an empty slice (not nil) if the namespace is empty.
func (s *Store) ReadSummary(ctx context.Context, snapshotID string, kind ir.Kind) ([]SummaryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, description
		FROM records
		WHERE snapshot_id = ? AND kind = ?
		ORDER BY seq ASC, record_id COLLATE BINARY ASC
	`, snapshotID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	out := []SummaryRow{}
	for rows.Next() {
		var r SummaryRow
		if err := rows.Scan(&r.ID, &r.Description); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return out, nil
}

// ReadRecord returns one record of a snapshot.
func (s *Store) ReadRecord(ctx context.Context, snapshotID string, kind ir.Kind, id string) (StoredRecord, error) {
	return scanRecord(s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE snapshot_id = ? AND kind = ? AND record_id = ?
	`, snapshotID, string(kind), id))
}

// FindBySignature returns the latest-declared part of a snapshot with sig.
func (s *Store) FindBySignature(ctx context.Context, snapshotID string, sig ir.Signature) (StoredRecord, error) {
	return scanRecord(s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE snapshot_id = ? AND kind = 'part' AND signature = ?
		ORDER BY seq DESC
		LIMIT 1
	`, snapshotID, sig.Hex()))
}
