package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/avrconf/internal/export"
	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/ordered"
	"github.com/roach88/avrconf/internal/query"
	"github.com/roach88/avrconf/internal/store"
)

// ShowOptions holds flags for the snapshot show command.
type ShowOptions struct {
	*RootOptions
	Programmer string
	Part       string
	Signature  string
}

// SnapshotListing is the content of a stored snapshot.
type SnapshotListing struct {
	Snapshot    SnapshotResult `json:"snapshot"`
	Programmers []ListingEntry `json:"programmers"`
	Parts       []ListingEntry `json:"parts"`
}

// ListingEntry is one id → description pair.
type ListingEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// NewSnapshotShowCommand creates the snapshot show command.
func NewSnapshotShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [snapshot-id]",
		Short: "Read a stored snapshot",
		Long: `Read records back from the snapshot database without the source.

With no id the latest snapshot is used. Without a selector the programmer
and part listings are printed; --programmer, --part or --signature print
one stored record.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runSnapshotShow(opts, cmd, id)
		},
	}

	cmd.Flags().StringVar(&opts.Programmer, "programmer", "", "print the stored programmer with this id")
	cmd.Flags().StringVar(&opts.Part, "part", "", "print the stored part with this id")
	cmd.Flags().StringVar(&opts.Signature, "signature", "", "print the stored part with this signature")
	cmd.MarkFlagsMutuallyExclusive("programmer", "part", "signature")

	return cmd
}

func runSnapshotShow(opts *ShowOptions, cmd *cobra.Command, id string) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, err := store.Open(opts.Config.DB)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("opening database: %v", err), err)
	}
	defer st.Close()

	snap, err := findSnapshot(ctx, st, id)
	if errors.Is(err, store.ErrNotFound) {
		msg := "no snapshots stored"
		if id != "" {
			msg = fmt.Sprintf("snapshot %q not found", id)
		}
		return f.Fail(ExitFailure, query.ErrCodeNotFound, msg, err)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("reading snapshot: %v", err), err)
	}
	opts.Logger.Debug("snapshot selected", "db", opts.Config.DB, "id", snap.ID, "seq", snap.Seq)

	switch {
	case opts.Programmer != "":
		rec, err := st.ReadRecord(ctx, snap.ID, ir.KindProgrammer, opts.Programmer)
		return outputStored(f, rec, err, &query.NotFoundError{Namespace: "programmer", Key: opts.Programmer})
	case opts.Part != "":
		rec, err := st.ReadRecord(ctx, snap.ID, ir.KindPart, opts.Part)
		return outputStored(f, rec, err, &query.NotFoundError{Namespace: "part", Key: opts.Part})
	case opts.Signature != "":
		sig, err := query.ParseSignature(opts.Signature)
		if err != nil {
			return f.Fail(ExitFailure, ErrorCode(err), err.Error(), err)
		}
		rec, err := st.FindBySignature(ctx, snap.ID, sig)
		return outputStored(f, rec, err, &query.NotFoundError{Namespace: "signature", Key: sig.Hex()})
	}

	listing := SnapshotListing{Snapshot: toSnapshotResult(snap)}
	for _, kind := range []ir.Kind{ir.KindProgrammer, ir.KindPart} {
		rows, err := st.ReadSummary(ctx, snap.ID, kind)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("reading %s listing: %v", kind, err), err)
		}
		entries := make([]ListingEntry, len(rows))
		for i, r := range rows {
			entries[i] = ListingEntry(r)
		}
		if kind == ir.KindProgrammer {
			listing.Programmers = entries
		} else {
			listing.Parts = entries
		}
	}
	return outputListing(f, listing)
}

func findSnapshot(ctx context.Context, st *store.Store, id string) (store.Snapshot, error) {
	if id == "" {
		return st.LatestSnapshot(ctx)
	}
	return st.Snapshot(ctx, id)
}

// outputStored prints a stored record body, or reports miss when the store
// has no such record.
func outputStored(f *OutputFormatter, rec store.StoredRecord, err error, miss *query.NotFoundError) error {
	if errors.Is(err, store.ErrNotFound) {
		return f.Fail(ExitFailure, miss.Code(), miss.Error(), miss)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("reading record: %v", err), err)
	}
	if f.JSON() {
		return f.Success(json.RawMessage(rec.Body))
	}
	_, err = fmt.Fprintf(f.Writer, "%s\n", rec.Body)
	return err
}

func outputListing(f *OutputFormatter, listing SnapshotListing) error {
	if f.JSON() {
		return f.Success(listing)
	}
	s := listing.Snapshot
	fmt.Fprintf(f.Writer, "#%d %s %s\n", s.Seq, s.ID, s.SourceHash[:12])
	fmt.Fprintf(f.Writer, "programmers %s\n", export.CommentedIDs(entryMap(listing.Programmers)))
	fmt.Fprintf(f.Writer, "parts %s\n", export.CommentedIDs(entryMap(listing.Parts)))
	return nil
}

func entryMap(entries []ListingEntry) ordered.Map[string, string] {
	b := ordered.NewBuilder[string, string](len(entries))
	for _, e := range entries {
		b.Append(e.ID, e.Description)
	}
	return b.Map()
}
