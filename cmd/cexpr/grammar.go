package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/cexpr/pkg/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd(out io.Writer) *cobra.Command {
	var productions, terminals bool

	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "Print the expression grammar in EBNF",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			switch {
			case productions:
				fmt.Fprintln(out, strings.Join(grammar.Productions(g), "\n"))
			case terminals:
				fmt.Fprintln(out, strings.Join(grammar.Terminals(g), " "))
			default:
				fmt.Fprint(out, grammar.Source())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&productions, "productions", false, "List production names only")
	cmd.Flags().BoolVar(&terminals, "terminals", false, "List the operator and keyword tokens only")

	return cmd
}
