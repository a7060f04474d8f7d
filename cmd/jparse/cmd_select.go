package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javaparse/java/assist"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		start, end int
		word       int
		showUnit   bool
	)

	cmd := &cobra.Command{
		Use:   "select <file[:start-end]>",
		Short: "Run a selection parse over an inclusive range",
		Example: `  jparse select Foo.java:120-124
  jparse select Foo.java --word 121`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, rng, hasRange := strings.Cut(args[0], ":")
			if hasRange {
				var err error
				start, end, err = parseRange(rng)
				if err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			byWord := flags.Changed("word")
			if !hasRange && !byWord && !(flags.Changed("start") && flags.Changed("end")) {
				return fmt.Errorf("no selection: use %s:<start>-<end>, --start and --end, or --word", file)
			}

			data, err := readInput(file)
			if err != nil {
				return err
			}
			opts, err := a.cfg.ParserOptions(filepath.Base(file))
			if err != nil {
				return err
			}
			var r *assist.Result
			if byWord {
				r, err = assist.SelectWord(data, word, opts...)
			} else {
				r, err = assist.Select(data, start, end, opts...)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !r.Found() {
				fmt.Fprintln(out, "nothing selected")
				return nil
			}
			printResult(out, r, showUnit)
			if decl := assist.Declaration(r); decl != nil {
				pos := decl.Span.Start
				if decl.Type != "" {
					fmt.Fprintf(out, "declared:   %s %s %s at %d:%d\n", decl.Kind, decl.Type, decl.Name, pos.Line, pos.Column)
				} else {
					fmt.Fprintf(out, "declared:   %s %s at %d:%d\n", decl.Kind, decl.Name, pos.Line, pos.Column)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "first selected byte")
	cmd.Flags().IntVar(&end, "end", 0, "last selected byte, inclusive")
	cmd.Flags().IntVar(&word, "word", 0, "select the identifier around this offset")
	cmd.Flags().BoolVar(&showUnit, "unit", false, "print the unit with the sentinel in place")
	return cmd
}

func parseRange(s string) (int, int, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q: want <start>-<end>", s)
	}
	start, err := strconv.Atoi(from)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start: %w", err)
	}
	end, err := strconv.Atoi(to)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end: %w", err)
	}
	return start, end, nil
}
