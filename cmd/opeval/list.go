package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [family...]",
		Short: "Print the sizes and row labels each family would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := parseFamilies(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, family := range families {
				plan, err := a.cfg.Plan(family)
				if err != nil {
					return err
				}
				sizes := make([]string, len(plan.Sizes))
				for i, sz := range plan.Sizes {
					sizes[i] = sz.Label
				}
				fmt.Fprintf(out, "%s (%d sizes: %s)\n", family, len(sizes), strings.Join(sizes, " "))
				for _, op := range plan.Ops {
					fmt.Fprintf(out, "  %s\n", op.Label)
				}
			}
			return nil
		},
	}
}
