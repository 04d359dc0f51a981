package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapdb/pkg/token"
)

const continuationPrompt = "    ...> "

// replBackend executes statements for the interactive loop.
type replBackend interface {
	// Exec runs one statement and returns the response text. An error ends
	// the loop.
	Exec(ctx context.Context, stmt string) (string, error)
	Prompt() string
	// Dot handles backend specific dot-commands.
	Dot(w io.Writer, name string, args []string) (bool, error)
	// Words returns extra completion candidates, such as table names.
	Words() []string
}

// repl accumulates input lines into statements and dispatches dot-commands.
type repl struct {
	backend replBackend
	out     io.Writer
	errOut  io.Writer
	buf     strings.Builder
}

func newREPL(backend replBackend, out, errOut io.Writer) *repl {
	return &repl{backend: backend, out: out, errOut: errOut}
}

// run reads lines with readline until .quit, EOF or a backend error.
func (r *repl) run(ctx context.Context, banner, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt(),
		HistoryFile:     historyFile,
		AutoComplete:    &wordCompleter{words: r.words},
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(r.out, banner)
	_, _ = fmt.Fprintln(r.out, hintStyle.Render("Type .help for commands, .quit to exit"))
	_, _ = fmt.Fprintln(r.out)

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			r.buf.Reset()
			rl.SetPrompt(r.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if quit := r.handleLine(ctx, line); quit {
			break
		}
		rl.SetPrompt(r.prompt())
	}
	return nil
}

func (r *repl) prompt() string {
	if r.buf.Len() > 0 {
		return continuationPrompt
	}
	return r.backend.Prompt()
}

// handleLine consumes one input line and reports whether the loop should end.
// Statements are executed once a line ends with a semicolon.
func (r *repl) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if r.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return r.dot(line)
	}

	if r.buf.Len() > 0 {
		r.buf.WriteByte(' ')
	}
	r.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		return false
	}

	stmt := r.buf.String()
	r.buf.Reset()

	text, err := r.backend.Exec(ctx, stmt)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return true
	}
	_, _ = fmt.Fprintln(r.out, styleMarkers(strings.TrimRight(text, "\n")))
	return false
}

func (r *repl) dot(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.out)
		return false
	}

	handled, err := r.backend.Dot(r.out, command, parts[1:])
	switch {
	case err != nil:
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	case !handled:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (r *repl) words() []string {
	words := append(token.Keywords(), dotCommands...)
	return append(words, r.backend.Words()...)
}

var dotCommands = []string{".help", ".quit", ".exit", ".databases", ".tables"}

func printREPLHelp(w io.Writer) {
	help := `Commands:
  .help              Show this help
  .databases         List databases
  .tables [db]       List tables of the selected or given database
  .quit, .exit       Exit the shell

Statements end with a semicolon and may span several lines.
Press Ctrl+C to discard a partial statement.`
	_, _ = fmt.Fprintln(w, help)
}

// wordCompleter completes the word under the cursor against a candidate list,
// ignoring case.
type wordCompleter struct {
	words func() []string
}

// Do implements readline.AutoCompleter.
func (c *wordCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	prefix := line[start:pos]
	if len(prefix) == 0 {
		return nil, 0
	}

	var out [][]rune
	for _, w := range c.words() {
		wr := []rune(w)
		if len(wr) > len(prefix) && strings.EqualFold(string(wr[:len(prefix)]), string(prefix)) {
			out = append(out, wr[len(prefix):])
		}
	}
	return out, len(prefix)
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
