package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/avrconf/internal/export"
	"github.com/roach88/avrconf/internal/ir"
)

// ContentOptions holds flags for the content command.
type ContentOptions struct {
	*RootOptions
	Export string // "json" | "yaml" | "cue"
}

// ValidExports defines the allowed content export encodings.
var ValidExports = []string{"json", "yaml", "cue"}

// NewContentCommand creates the content command.
func NewContentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Dump every resolved record",
		Long: `Dump every programmer and part record, with inheritance resolved,
in declaration order.

--export selects the encoding (json, yaml or cue). With --format json the
JSON document is wrapped in the response envelope; other encodings are
embedded as a string.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContent(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Export, "export", "e", "json", "record encoding (json|yaml|cue)")

	return cmd
}

func runContent(opts *ContentOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	encode, err := contentEncoder(opts.Export)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}

	svc, err := opts.Service()
	if err != nil {
		return loadFailure(f, err)
	}

	records := svc.Content()
	opts.Logger.Debug("exporting content", "records", len(records), "export", opts.Export)

	body, err := encode(records)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("exporting content: %v", err), err)
	}

	if f.JSON() {
		if opts.Export == "json" {
			return f.Success(json.RawMessage(body))
		}
		return f.Success(string(body))
	}
	if !bytes.HasSuffix(body, []byte("\n")) {
		body = append(body, '\n')
	}
	_, err = f.Writer.Write(body)
	return err
}

func contentEncoder(name string) (func([]ir.Record) ([]byte, error), error) {
	switch name {
	case "json":
		return export.Content, nil
	case "yaml":
		return export.ContentYAML, nil
	case "cue":
		return export.ContentCUE, nil
	default:
		return nil, fmt.Errorf("invalid export %q: must be one of %v", name, ValidExports)
	}
}
