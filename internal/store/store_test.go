package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/avrconf/internal/index"
	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func loadIndex(t *testing.T, src string) *index.Index {
	t.Helper()
	idx, err := index.Load(src)
	require.NoError(t, err)
	return idx
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"snapshots", "records"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var indexName string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_records_signature'",
	).Scan(&indexName)
	assert.NoError(t, err, "signature index missing")
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestClose_ZeroStore(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}

func TestSourceHash(t *testing.T) {
	a := SourceHash([]byte("part \"x\" { }"))
	b := SourceHash([]byte("part \"x\" { }"))
	c := SourceHash([]byte("part \"y\" { }"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
	assert.NotEqual(t, hashWithDomain("other/v1", []byte("x")), hashWithDomain(DomainSource, []byte("x")))
}

func TestWriteSnapshot(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	idx := loadIndex(t, testutil.SampleSource)

	snap, created, err := s.WriteSnapshot(ctx, []byte(testutil.SampleSource), idx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), snap.Seq)
	assert.Equal(t, 3, snap.Programmers)
	assert.Equal(t, 4, snap.Parts)
	assert.Equal(t, ir.SchemaVersion, snap.SchemaVersion)

	parsed, err := uuid.Parse(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	got, err := s.Snapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestWriteSnapshot_SameSourceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	idx := loadIndex(t, testutil.SampleSource)

	first, created, err := s.WriteSnapshot(ctx, []byte(testutil.SampleSource), idx)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.WriteSnapshot(ctx, []byte(testutil.SampleSource), idx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	snaps, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestListSnapshots_WriteOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	empty, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = s.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	sources := []string{`part "a" { }`, `part "b" { }`, `part "c" { }`}
	var ids []string
	for _, src := range sources {
		snap, _, err := s.WriteSnapshot(ctx, []byte(src), loadIndex(t, src))
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	snaps, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	for i, snap := range snaps {
		assert.Equal(t, ids[i], snap.ID)
		assert.Equal(t, int64(i+1), snap.Seq)
	}

	latest, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)
}

func TestReadSummary_DeclarationOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap, _, err := s.WriteSnapshot(ctx, []byte(testutil.SampleSource), loadIndex(t, testutil.SampleSource))
	require.NoError(t, err)

	parts, err := s.ReadSummary(ctx, snap.ID, ir.KindPart)
	require.NoError(t, err)
	assert.Equal(t, []SummaryRow{
		{ID: "m328", Description: "ATmega328"},
		{ID: "m328p", Description: "ATmega328P"},
		{ID: "m328pb", Description: "ATmega328PB"},
		{ID: "m328-clone", Description: "ATmega328 clone"},
	}, parts)

	progs, err := s.ReadSummary(ctx, snap.ID, ir.KindProgrammer)
	require.NoError(t, err)
	require.Len(t, progs, 3)
	assert.Equal(t, "usbasp", progs[1].ID)

	none, err := s.ReadSummary(ctx, "missing", ir.KindPart)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReadRecord(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap, _, err := s.WriteSnapshot(ctx, []byte(testutil.SampleSource), loadIndex(t, testutil.SampleSource))
	require.NoError(t, err)

	rec, err := s.ReadRecord(ctx, snap.ID, ir.KindPart, "m328p")
	require.NoError(t, err)
	assert.Equal(t, ir.KindPart, rec.Kind)
	assert.Equal(t, "m328", rec.Parent)
	assert.Equal(t, "1e950f", rec.Signature)
	assert.Equal(t, 3, rec.Seq)
	assert.Contains(t, string(rec.Body), `"signature": "0x1e950f"`)

	prog, err := s.ReadRecord(ctx, snap.ID, ir.KindProgrammer, "avrisp")
	require.NoError(t, err)
	assert.Empty(t, prog.Signature)

	_, err = s.ReadRecord(ctx, snap.ID, ir.KindProgrammer, "m328p")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindBySignature_LaterWins(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap, _, err := s.WriteSnapshot(ctx, []byte(testutil.SampleSource), loadIndex(t, testutil.SampleSource))
	require.NoError(t, err)

	rec, err := s.FindBySignature(ctx, snap.ID, ir.Signature{0x1e, 0x95, 0x14})
	require.NoError(t, err)
	assert.Equal(t, "m328-clone", rec.ID)

	_, err = s.FindBySignature(ctx, snap.ID, ir.Signature{0x1e, 0x14, 0x95})
	assert.ErrorIs(t, err, ErrNotFound)
}
