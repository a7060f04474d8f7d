package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dhamidi/javaparse/format"
	"github.com/dhamidi/javaparse/internal/config"
	"github.com/dhamidi/javaparse/java/parser"
	"github.com/dhamidi/javaparse/java/problem"
	"github.com/dhamidi/javaparse/java/scanner"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		outputFormat string
		positions    bool
		comments     bool
		diet         bool
		stats        bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file|dir|archive>...",
		Short: "Parse Java sources and print the tree and its problems",
		Long: `Parse a single .java file (or - for standard input) and print it in the
chosen format, followed by any problems. Directories, archives and more than
one argument are scanned in parallel and summarized instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("format") {
				a.cfg.Output.Format = outputFormat
			}
			if flags.Changed("positions") {
				a.cfg.Output.Positions = positions
			}
			if flags.Changed("comments") {
				a.cfg.Output.Comments = comments
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			if len(args) == 1 && isSingleUnit(args[0]) {
				return parseFile(cmd, a.cfg, args[0], diet, stats)
			}
			return scanPaths(cmd, a.cfg, args, stats)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: json, java, tree or line")
	cmd.Flags().BoolVar(&positions, "positions", false, "include source positions")
	cmd.Flags().BoolVar(&comments, "comments", false, "keep comments in the tree")
	cmd.Flags().BoolVar(&diet, "diet", false, "skip method bodies")
	cmd.Flags().BoolVar(&stats, "stats", false, "print size and timing")
	return cmd
}

func isSingleUnit(arg string) bool {
	if arg == "-" {
		return true
	}
	info, err := os.Stat(arg)
	if err != nil {
		// Let the read report the error.
		return true
	}
	return !info.IsDir() && filepath.Ext(arg) == ".java"
}

func newEncoder(name string, w io.Writer, positions bool) (format.Encoder, error) {
	switch name {
	case "json":
		return format.NewJSONEncoder(w), nil
	case "java":
		return format.NewJavaEncoder(w), nil
	case "tree":
		return format.NewTreeEncoder(w, positions), nil
	case "line":
		return format.NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrInvalidFormat, name)
}

func parseFile(cmd *cobra.Command, cfg *config.Config, name string, diet, stats bool) error {
	data, err := readInput(name)
	if err != nil {
		return err
	}
	unitName := filepath.Base(name)
	if name == "-" {
		unitName = "Stdin.java"
	}
	opts, err := cfg.ParserOptions(unitName)
	if err != nil {
		return err
	}
	if diet {
		opts = append(opts, parser.WithDiet())
	}

	started := time.Now()
	p := parser.ParseCompilationUnit(bytes.NewReader(data), opts...)
	root := p.Finish()
	elapsed := time.Since(started)

	unit := format.NewUnit(unitName, p, root)
	problems := unit.Problems
	// Problems go to stderr in color, except in JSON where they are data.
	if cfg.Output.Format != "json" {
		unit.Problems = nil
	}
	enc, err := newEncoder(cfg.Output.Format, cmd.OutOrStdout(), cfg.Output.Positions)
	if err != nil {
		return err
	}
	if err := enc.Encode(unit); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if cfg.Output.Format != "json" {
		if err := printProblems(cmd.ErrOrStderr(), problems, data); err != nil {
			return err
		}
	}
	if stats {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s parsed in %s, %d problems\n",
			unitName, humanize.Bytes(uint64(len(data))), elapsed.Round(time.Microsecond), len(problems))
	}
	if slices.ContainsFunc(problems, (*problem.Problem).IsError) {
		return errProblems
	}
	return nil
}

func scanPaths(cmd *cobra.Command, cfg *config.Config, paths []string, stats bool) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	s := scanner.New(
		scanner.WithWorkers(cfg.Scan.Workers),
		scanner.WithArchives(cfg.Scan.Archives),
		scanner.WithParserOptions(parser.WithOptions(opts)),
		scanner.WithTrees(),
	)
	defer s.Close()

	result, err := s.Scan(cmd.Context(), paths...)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for _, f := range result.Failed() {
		if err := printProblems(stderr, f.Problems, f.Source); err != nil {
			return err
		}
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(stderr, errorColor.Sprint("error: ")+msg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s units, %s, %s problems (%s errors) in %d files\n",
		humanize.Comma(int64(len(result.Files))),
		humanize.Bytes(uint64(result.Bytes())),
		humanize.Comma(int64(result.Problems())),
		humanize.Comma(int64(result.ErrorCount())),
		len(result.Failed()))
	if stats {
		elapsed := result.Duration()
		rate := float64(result.Bytes())
		if elapsed > 0 {
			rate /= elapsed.Seconds()
		}
		fmt.Fprintf(out, "scanned in %s with %d workers, %s/s\n",
			elapsed.Round(time.Millisecond), cfg.Scan.Workers, humanize.Bytes(uint64(rate)))
	}

	if result.Status == scanner.StatusFailed {
		return fmt.Errorf("scan failed: %s", result.Error)
	}
	if result.ErrorCount() > 0 {
		return errProblems
	}
	return nil
}
