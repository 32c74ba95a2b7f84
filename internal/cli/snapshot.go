package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/avrconf/internal/config"
	"github.com/roach88/avrconf/internal/store"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	DBPath string
	List   bool
}

// SnapshotResult describes one stored snapshot.
type SnapshotResult struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	SourceHash  string `json:"source_hash"`
	Schema      string `json:"schema"`
	Engine      string `json:"engine"`
	Programmers int    `json:"programmers"`
	Parts       int    `json:"parts"`
	Created     bool   `json:"created,omitempty"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Persist the built index to a SQLite database",
		Long: `Build the index and store every resolved record in a SQLite database.

Snapshots are keyed by a hash of the source text: storing an unchanged
source again returns the existing snapshot. --list shows stored snapshots
oldest first without reading the source; "snapshot show" reads one back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, config.KeyDB, config.DefaultDB, "path to the snapshot database")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list stored snapshots")

	cmd.AddCommand(NewSnapshotShowCommand(rootOpts))

	return cmd
}

func runSnapshot(opts *SnapshotOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	dbPath := opts.Config.DB

	st, err := store.Open(dbPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("opening database: %v", err), err)
	}
	defer st.Close()

	if opts.List {
		snaps, err := st.ListSnapshots(cmd.Context())
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("listing snapshots: %v", err), err)
		}
		return outputSnapshots(f, snaps)
	}

	loaded, err := opts.load()
	if err != nil {
		return loadFailure(f, err)
	}

	snap, created, err := st.WriteSnapshot(cmd.Context(), loaded.Source, loaded.Index)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing snapshot: %v", err), err)
	}
	opts.Logger.Debug("snapshot stored", "db", dbPath, "id", snap.ID, "created", created)

	result := toSnapshotResult(snap)
	result.Created = created
	if f.JSON() {
		return f.Success(result)
	}
	verb := "stored"
	if !created {
		verb = "unchanged"
	}
	fmt.Fprintf(f.Writer, "✓ snapshot %s %s (#%d: %d programmers, %d parts) in %s\n",
		snap.ID, verb, snap.Seq, snap.Programmers, snap.Parts, dbPath)
	return nil
}

func outputSnapshots(f *OutputFormatter, snaps []store.Snapshot) error {
	results := make([]SnapshotResult, len(snaps))
	for i, s := range snaps {
		results[i] = toSnapshotResult(s)
	}
	if f.JSON() {
		return f.Success(results)
	}
	if len(results) == 0 {
		fmt.Fprintln(f.Writer, "no snapshots")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(f.Writer, "#%d %s %s %d programmers, %d parts\n",
			r.Seq, r.ID, r.SourceHash[:12], r.Programmers, r.Parts)
	}
	return nil
}

func toSnapshotResult(s store.Snapshot) SnapshotResult {
	return SnapshotResult{
		ID:          s.ID,
		Seq:         s.Seq,
		SourceHash:  s.SourceHash,
		Schema:      s.SchemaVersion,
		Engine:      s.EngineVersion,
		Programmers: s.Programmers,
		Parts:       s.Parts,
	}
}
