package cli

import (
	"fmt"
	"math/big"
	"strings"

	"spacetime-server/internal/instant"

	"github.com/spf13/cobra"
)

type instantOptions struct {
	offset string
	layout string
}

func (o *instantOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.offset, "offset", "0", "whole years added to the value")
}

func (o *instantOptions) resolve(args []string) (instant.Instant, error) {
	offset, ok := new(big.Int).SetString(strings.TrimPrefix(o.offset, "+"), 10)
	if !ok {
		return instant.Instant{}, fmt.Errorf("invalid offset %q", o.offset)
	}

	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a
	}
	if len(values) > 1 {
		return instant.Instant{}, fmt.Errorf("expected at most one value, got %d", len(values))
	}
	return instant.FromOffset(offset, values...)
}

type formatResult struct {
	Exact       string `json:"exact"`
	BlockOffset string `json:"block_offset"`
	NativeNanos int64  `json:"native_nanos"`
	Year        string `json:"year"`
	Display     string `json:"display"`
}

func NewFormatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &instantOptions{}

	cmd := &cobra.Command{
		Use:   "format [value]",
		Short: "Display an instant with a time layout",
		Long: `Display an instant with a Go time layout. The value is an RFC 3339
timestamp or YYYY-MM-DD date whose year may be signed and longer than four
digits, or an exact nanosecond count since the epoch. Without a value the
current time is used.`,
		Example: `  spacetimectl format --offset -413000000 2000-01-01 --layout "Monday, January 2, 2006"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := opts.resolve(args)
			if err != nil {
				return err
			}
			display, err := inst.Format(opts.layout)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), rootOpts, display, formatResult{
				Exact:       inst.Exact().String(),
				BlockOffset: inst.BlockOffset().String(),
				NativeNanos: inst.NativeNanos(),
				Year:        inst.Year().String(),
				Display:     display,
			})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", instant.DefaultLayout, "Go time layout; must contain 2006")

	return cmd
}

func NewYearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &instantOptions{}

	cmd := &cobra.Command{
		Use:   "year [value]",
		Short: "Print the proleptic Gregorian year of an instant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := opts.resolve(args)
			if err != nil {
				return err
			}
			year := inst.Year().String()
			return emit(cmd.OutOrStdout(), rootOpts, year, map[string]string{"year": year})
		},
	}

	opts.bind(cmd)
	return cmd
}
