package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/javaparse/internal/config"
	"github.com/dhamidi/javaparse/java/problem"
)

// errProblems makes the process exit non-zero after the problems have
// been printed.
var errProblems = errors.New("compilation unit has errors")

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    int
	color      string

	cfg *config.Config
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.color != "" {
		cfg.Output.Color = a.color
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	switch cfg.Output.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	verbosity := cfg.Log.Verbosity + a.verbose
	var path *string
	if cfg.Log.Path != "" {
		path = &cfg.Log.Path
	}
	commonlog.Configure(verbosity, path)
	return nil
}

// readInput reads the named file, or standard input for "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// splitLocation splits "File.java:42" into the file and the offset.
// ok is false when arg carries no offset.
func splitLocation(arg string) (file string, offset int, ok bool, err error) {
	i := strings.LastIndexByte(arg, ':')
	if i < 0 {
		return arg, 0, false, nil
	}
	offset, err = strconv.Atoi(arg[i+1:])
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid offset in %q: %w", arg, err)
	}
	return arg[:i], offset, true, nil
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	caretColor   = color.New(color.FgGreen)
)

// printProblems renders problems in the diagnostic text format,
// highlighting the header of each entry and its caret line.
func printProblems(w io.Writer, problems []*problem.Problem, source []byte) error {
	if len(problems) == 0 {
		return nil
	}
	text := problem.RenderString(problems, source)
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(w, colorize(line)); err != nil {
			return err
		}
	}
	return nil
}

func colorize(line string) string {
	body := strings.TrimRight(line, "\n")
	nl := line[len(body):]
	trimmed := strings.TrimLeft(body, " \t")
	if c := headerColor(body); c != nil {
		return c.Sprint(body) + nl
	}
	if trimmed != "" && strings.Trim(trimmed, "^") == "" {
		return body[:len(body)-len(trimmed)] + caretColor.Sprint(trimmed) + nl
	}
	return line
}

// headerColor returns the color for a "1. ERROR in X.java" line, or nil
// for any other line.
func headerColor(line string) *color.Color {
	num, rest, ok := strings.Cut(line, ". ")
	if !ok {
		return nil
	}
	if _, err := strconv.Atoi(num); err != nil {
		return nil
	}
	switch {
	case strings.HasPrefix(rest, "ERROR in "):
		return errorColor
	case strings.HasPrefix(rest, "WARNING in "):
		return warningColor
	case strings.HasPrefix(rest, "INFO in "):
		return infoColor
	}
	return nil
}
