package cli

import (
	"fmt"
	"strings"

	"spacetime-server/internal/space"

	"github.com/spf13/cobra"
)

type kindRow struct {
	Kind     space.Kind `json:"kind"`
	Base     space.Kind `json:"base"`
	Requires space.Kind `json:"requires"`
}

func NewKindsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List space kinds and the kind each must be inside",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []kindRow
			var b strings.Builder
			fmt.Fprintf(&b, "%-14s %-10s %s", "KIND", "IS-A", "REQUIRES")
			for _, k := range space.Kinds() {
				rows = append(rows, kindRow{Kind: k, Base: k.Base(), Requires: k.Requires()})

				requires := "-"
				if k.Requires() != space.KindSpace {
					requires = k.Requires().String()
				}
				fmt.Fprintf(&b, "\n%-14s %-10s %s", k, k.Base(), requires)
			}
			return emit(cmd.OutOrStdout(), rootOpts, b.String(), rows)
		},
	}
}
