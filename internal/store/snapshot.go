package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/avrconf/internal/export"
	"github.com/roach88/avrconf/internal/index"
	"github.com/roach88/avrconf/internal/ir"
)

// Snapshot describes one persisted index.
type Snapshot struct {
	ID            string
	Seq           int64
	SourceHash    string
	SchemaVersion string
	EngineVersion string
	Programmers   int
	Parts         int
}

// StoredRecord is one persisted record row.
type StoredRecord struct {
	Kind        ir.Kind
	ID          string
	Parent      string
	Description string
	Signature   string // six hex digits, empty when absent
	Seq         int
	Body        []byte // export.Record JSON
}

// SummaryRow is one id → description pair of a persisted listing.
type SummaryRow struct {
	ID          string
	Description string
}

// WriteSnapshot persists idx, built from src, in a single transaction.
// Returns created=false with the existing snapshot when src was already
// stored.
func (s *Store) WriteSnapshot(ctx context.Context, src []byte, idx *index.Index) (snap Snapshot, created bool, err error) {
	hash := SourceHash(src)
	if existing, err := s.snapshotByHash(ctx, hash); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Snapshot{}, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`).Scan(&seq); err != nil {
		return Snapshot{}, false, fmt.Errorf("next snapshot seq: %w", err)
	}

	snap = Snapshot{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Seq:           seq,
		SourceHash:    hash,
		SchemaVersion: ir.SchemaVersion,
		EngineVersion: ir.EngineVersion,
		Programmers:   idx.NumProgrammers(),
		Parts:         idx.NumParts(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, seq, source_hash, schema_version, engine_version, programmer_count, part_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		snap.Seq,
		snap.SourceHash,
		snap.SchemaVersion,
		snap.EngineVersion,
		snap.Programmers,
		snap.Parts,
	)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records
		(snapshot_id, seq, kind, record_id, parent, description, signature, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range idx.Content() {
		row, err := toRow(r)
		if err != nil {
			return Snapshot{}, false, err
		}
		var sig sql.NullString
		if row.Signature != "" {
			sig = sql.NullString{String: row.Signature, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			snap.ID, row.Seq, string(row.Kind), row.ID, row.Parent, row.Description, sig, string(row.Body),
		); err != nil {
			return Snapshot{}, false, fmt.Errorf("insert record %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, false, fmt.Errorf("commit snapshot: %w", err)
	}
	return snap, true, nil
}

func toRow(r ir.Record) (StoredRecord, error) {
	body, err := export.Record(r)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("encode record %s: %w", r.Key(), err)
	}
	row := StoredRecord{Kind: r.Kind(), Seq: r.DeclSeq(), Body: body}
	switch r := r.(type) {
	case ir.ProgrammerRecord:
		row.ID, row.Parent, row.Description = r.ID, r.Parent, r.Description
	case ir.PartRecord:
		row.ID, row.Parent, row.Description = r.ID, r.Parent, r.Description
		if r.HasSignature {
			row.Signature = r.Signature.Hex()
		}
	}
	return row, nil
}

const snapshotColumns = `id, seq, source_hash, schema_version, engine_version, programmer_count, part_count`

func scanSnapshot(row interface{ Scan(...any) error }) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(
		&snap.ID,
		&snap.Seq,
		&snap.SourceHash,
		&snap.SchemaVersion,
		&snap.EngineVersion,
		&snap.Programmers,
		&snap.Parts,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) snapshotByHash(ctx context.Context, hash string) (Snapshot, error) {
	return scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE source_hash = ?`, hash))
}

// Snapshot returns the snapshot with the given id.
func (s *Store) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	return scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id))
}

// LatestSnapshot returns the most recently written snapshot.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	return scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY seq DESC LIMIT 1`))
}

// ListSnapshots returns all snapshots in write order.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}
