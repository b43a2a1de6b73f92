// Package cli implements spacetimectl, the command line companion of the
// spacetime server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Output string // "text" | "json"
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "spacetimectl",
		Short: "Inspect extended instants and the space hierarchy",
		Long: `spacetimectl formats timestamps far outside the native time range,
lists the space kinds and their containment rules, and issues operator
tokens for the spacetime server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|json)")

	cmd.AddCommand(NewFormatCommand(opts))
	cmd.AddCommand(NewYearCommand(opts))
	cmd.AddCommand(NewKindsCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// emit writes v as indented JSON, or text as-is.
func emit(w io.Writer, opts *RootOptions, text string, v any) error {
	if opts.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
