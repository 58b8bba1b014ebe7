package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/calc"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression (+ - * / and parentheses)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(args, " ")
			extracted, err := calc.Extract(expr)
			if err != nil {
				return err
			}
			v, err := calc.Eval(extracted)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), calc.Format(v))
			return nil
		},
	}
}
