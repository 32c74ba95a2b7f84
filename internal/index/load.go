package index

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/avrconf/internal/compiler"
	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/parser"
)

// Option configures Load and LoadFile.
type Option func(*loader)

type loader struct {
	logger *slog.Logger
	name   string
}

// WithLogger sets the logger used to report build progress.
func WithLogger(l *slog.Logger) Option {
	return func(ld *loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithSourceName sets the file name reported in parse errors from Load.
func WithSourceName(name string) Option {
	return func(ld *loader) {
		ld.name = name
	}
}

func newLoader(opts []Option) *loader {
	ld := &loader{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load parses src, resolves inheritance and builds an Index.
// Any parse or build error aborts the load; no partial Index is returned.
func Load(src string, opts ...Option) (*Index, error) {
	ld := newLoader(opts)
	entries, err := parser.Parse(src)
	if err != nil {
		var pe *parser.ParseError
		if ld.name != "" && errors.As(err, &pe) {
			pe.File = ld.name
		}
		return nil, err
	}
	return ld.build(entries)
}

// LoadFile is Load for a file on disk. Parse errors carry the path.
func LoadFile(path string, opts ...Option) (*Index, error) {
	ld := newLoader(opts)
	ld.logger.Debug("reading source", "path", path)
	entries, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ld.build(entries)
}

func (ld *loader) build(entries []ir.ConfigEntry) (*Index, error) {
	ld.logger.Debug("parsed source", "entries", len(entries))

	res, err := compiler.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("build records: %w", err)
	}

	idx, err := New(res.Programmers, res.Parts)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	ld.logger.Debug("index built",
		"programmers", idx.NumProgrammers(),
		"parts", idx.NumParts(),
		"signatures", idx.SignatureSummary().Len(),
	)
	return idx, nil
}
