package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/avrconf/internal/export"
	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/ordered"
	"github.com/roach88/avrconf/internal/query"
)

// NewIDsCommand creates the ids command.
func NewIDsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List every programmer and part id",
		Long: `List every programmer and part as "programmer:<id>" or "part:<id>",
interleaved in declaration order, each with its description.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			svc, err := rootOpts.Service()
			if err != nil {
				return loadFailure(f, err)
			}
			return outputIDs(f, svc.ListAllIDs())
		},
	}
}

// NewProgrammersCommand creates the programmers command.
func NewProgrammersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "programmers [id]",
		Short: "List programmers or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			svc, err := rootOpts.Service()
			if err != nil {
				return loadFailure(f, err)
			}
			if len(args) == 0 {
				return outputIDs(f, svc.ListProgrammerIDs())
			}
			return outputResult(f, svc.FindProgrammerByID(args[0]))
		},
	}
}

// NewPartsCommand creates the parts command.
func NewPartsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parts [id]",
		Short: "List parts or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			svc, err := rootOpts.Service()
			if err != nil {
				return loadFailure(f, err)
			}
			if len(args) == 0 {
				return outputIDs(f, svc.ListPartIDs())
			}
			return outputResult(f, svc.FindPartByID(args[0]))
		},
	}
}

// NewSignaturesCommand creates the signatures command.
func NewSignaturesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signatures [signature]",
		Short: "List part signatures or find the part with a signature",
		Long: `Without arguments, list every distinct part signature with the
description of the part that owns it. With an argument, find that part.

The signature is three bytes as six hex digits, optionally grouped and
prefixed: 1e950f, 0x1e950f, 1e:95:0f, "0x1e 0x95 0x0f".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			svc, err := rootOpts.Service()
			if err != nil {
				return loadFailure(f, err)
			}
			if len(args) == 0 {
				return outputSignatures(f, svc.ListPartSignatures())
			}
			return outputResult(f, svc.FindPartBySignature(args[0]))
		},
	}
}

// outputIDs writes an id listing as commented array text or a JSON object.
func outputIDs(f *OutputFormatter, m ordered.Map[string, string]) error {
	if f.JSON() {
		body, err := export.Summary(m)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
		}
		return f.Success(json.RawMessage(body))
	}
	return f.Success(export.CommentedIDs(m))
}

func outputSignatures(f *OutputFormatter, m ordered.Map[ir.Signature, string]) error {
	if f.JSON() {
		body, err := export.SignatureSummary(m)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
		}
		return f.Success(json.RawMessage(body))
	}
	return f.Success(export.CommentedSignatures(m))
}

// outputResult writes a found record, or reports the miss with exit code 1.
func outputResult[T ir.Record](f *OutputFormatter, res query.Result[T]) error {
	if !res.OK() {
		err := res.Err()
		return f.Fail(ExitFailure, ErrorCode(err), err.Error(), err)
	}

	body, err := export.Record(res.Value)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("rendering record: %v", err), err)
	}
	if f.JSON() {
		return f.Success(json.RawMessage(body))
	}
	_, err = f.Writer.Write(body)
	return err
}
