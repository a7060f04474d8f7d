package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javaparse/java/assist"
)

func newCompleteCmd(a *app) *cobra.Command {
	var (
		offset   int
		showUnit bool
	)

	cmd := &cobra.Command{
		Use:   "complete <file[:offset]>",
		Short: "Run a completion parse at a caret offset",
		Example: `  jparse complete Foo.java:120
  jparse complete Foo.java --offset 120 --unit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, caret, ok, err := splitLocation(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("offset") {
				caret, ok = offset, true
			}
			if !ok {
				return fmt.Errorf("no caret offset: use %s:<offset> or --offset", file)
			}

			data, err := readInput(file)
			if err != nil {
				return err
			}
			opts, err := a.cfg.ParserOptions(filepath.Base(file))
			if err != nil {
				return err
			}
			r, err := assist.Complete(data, caret, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !r.Found() {
				fmt.Fprintf(out, "no completion at offset %d\n", caret)
				return nil
			}
			printResult(out, r, showUnit)
			candidates := assist.Candidates(r)
			if len(candidates) > 0 {
				fmt.Fprintln(out, "candidates:")
				for _, c := range candidates {
					if c.Detail != "" {
						fmt.Fprintf(out, "  %s\t%s\t%s\n", c.Label, c.Kind, c.Detail)
					} else {
						fmt.Fprintf(out, "  %s\t%s\n", c.Label, c.Kind)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "caret offset in bytes")
	cmd.Flags().BoolVar(&showUnit, "unit", false, "print the unit with the sentinel in place")
	return cmd
}

// printResult writes the parts of an assist result common to completion
// and selection.
func printResult(w io.Writer, r *assist.Result, showUnit bool) {
	fmt.Fprintf(w, "sentinel:   %s\n", r.Sentinel)
	fmt.Fprintf(w, "identifier: %s\n", r.Identifier)
	fmt.Fprintf(w, "replaced:   [%d, %d) %q\n", r.ReplacedStart, r.ReplacedEnd, r.ReplacedSource)
	if showUnit {
		fmt.Fprintln(w, "unit:")
		fmt.Fprintln(w, r.Unit)
	}
}
