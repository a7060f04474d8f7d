package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/javaparse/format"
	"github.com/dhamidi/javaparse/java/parser"
)

var errMismatch = errors.New("output differs from expected")

func newCheckCmd(a *app) *cobra.Command {
	var update bool

	cmd := &cobra.Command{
		Use:   "check <file.java> <expected>",
		Short: "Compare the canonical rendering of a unit with an expected file",
		Long: `Parse a unit, render it with the java encoder (tree followed by problems)
and compare the result with the expected file. With --update the expected
file is rewritten instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, expectedPath := args[0], args[1]
			data, err := readInput(source)
			if err != nil {
				return err
			}
			unitName := filepath.Base(source)
			opts, err := a.cfg.ParserOptions(unitName)
			if err != nil {
				return err
			}
			p := parser.ParseCompilationUnit(bytes.NewReader(data), opts...)
			root := p.Finish()

			var got bytes.Buffer
			if err := format.NewJavaEncoder(&got).Encode(format.NewUnit(unitName, p, root)); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			if update {
				if err := os.WriteFile(expectedPath, got.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write expected: %w", err)
				}
				return nil
			}

			want, err := os.ReadFile(expectedPath)
			if err != nil {
				return fmt.Errorf("read expected: %w", err)
			}
			if bytes.Equal(want, got.Bytes()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", unitName)
				return nil
			}
			printDiff(cmd.OutOrStdout(), format.Diff(string(want), got.String()))
			return fmt.Errorf("%s: %w", unitName, errMismatch)
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, "rewrite the expected file")
	return cmd
}

var (
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
)

func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			removedColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addedColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
