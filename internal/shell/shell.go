// Package shell implements the interactive command loop. It performs no
// data-structure logic of its own beyond argument splitting: every command
// maps onto one engine operation and renders its result as text.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tabula/tabula/internal/config"
	"github.com/tabula/tabula/internal/csvio"
	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
)

// Shell holds the state of one interactive session: the loaded dataset,
// the configuration and a session-tagged logger.
type Shell struct {
	cfg *config.Config
	log *slog.Logger
	ds  *dataset.Dataset
}

// New creates a shell. Each session gets its own ID in the logs.
func New(cfg *config.Config, logger *slog.Logger) *Shell {
	return &Shell{
		cfg: cfg,
		log: logger.With("session_id", uuid.NewString()),
	}
}

// Dataset returns the currently loaded dataset, or nil.
func (s *Shell) Dataset() *dataset.Dataset { return s.ds }

// Load reads a CSV file into the session, replacing any loaded dataset.
func (s *Shell) Load(path string) error {
	ds, err := csvio.ReadFile(path)
	if err != nil {
		return err
	}
	s.ds = ds
	s.log.Info("dataset loaded", "path", path,
		"columns", len(ds.Columns()), "rows", ds.RowCount())
	return nil
}

// Run reads commands from r until quit or EOF, writing all output to w.
// A command error never ends the loop; it becomes a one-line message.
func (s *Shell) Run(r io.Reader, w io.Writer) {
	fmt.Fprintln(w, "Welcome to the Tabula shell. Type help to list commands.")
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, s.cfg.Prompt)
		if !scanner.Scan() {
			return
		}
		if s.Execute(scanner.Text(), w) {
			return
		}
	}
}

// Execute runs a single command line and reports whether the session
// should end.
func (s *Shell) Execute(line string, w io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)
	s.log.Debug("command", "name", name, "arg", arg)

	if name == "quit" || name == "exit" {
		return true
	}

	handler, ok := commands[name]
	if !ok {
		fmt.Fprintf(w, "unknown command %q; type help to list commands\n", name)
		return false
	}
	if err := handler(s, w, arg); err != nil {
		s.log.Debug("command failed", "name", name, "error", err)
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return false
}

// requireDataset fails commands issued before any data is loaded.
func (s *Shell) requireDataset() (*dataset.Dataset, error) {
	if s.ds == nil {
		return nil, errors.New(errors.ErrCategoryDataset, errors.CodeInvalidArgument,
			"no dataset loaded; run 'use <csv>' first")
	}
	return s.ds, nil
}

// splitArgs splits an argument string on whitespace, honouring single and
// double quotes.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	var quote byte
	inArg := false

	flush := func() {
		if inArg {
			args = append(args, current.String())
			current.Reset()
			inArg = false
		}
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			flush()
		default:
			current.WriteByte(ch)
			inArg = true
		}
	}
	flush()
	return args
}

// trimQuotes strips a single level of matching quotes from a path.
func trimQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
