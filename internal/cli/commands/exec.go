package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	File  string
	UseDB string
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [statements]",
		Short: "Execute statements against the local storage root",
		Long: `Execute one or more statements and print each response.

Statements are read from the argument, from --file, or from stdin when it
is not a terminal. Execution stops at the first failing statement and the
command exits with an error.`,
		Example: `  # Create a database and a table
  leapdb exec "CREATE DATABASE shop; USE shop; CREATE TABLE people (name, age);"

  # Query with CSV output
  leapdb exec --use shop -o csv "SELECT * FROM people WHERE age > 20;"

  # Run a script
  leapdb exec --file seed.sql
  cat seed.sql | leapdb exec`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read statements from a file (- for stdin)")
	cmd.Flags().StringVar(&opts.UseDB, "use", "", "Database to select before executing")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	text, err := readStatements(cmd, args, opts)
	if err != nil {
		return err
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	session := cc.Engine.NewSession()
	defer cc.Engine.CloseSession(session)
	if err := selectDatabase(ctx, cc.Engine, session, opts.UseDB); err != nil {
		return err
	}

	responses := cc.Engine.ExecuteScript(ctx, session, text)
	if len(responses) == 0 {
		return errors.New("no statements to execute")
	}

	out := cmd.OutOrStdout()
	for _, resp := range responses {
		if err := writeResponse(out, resp, cc.Format); err != nil {
			return err
		}
	}

	if last := responses[len(responses)-1]; !last.OK() {
		return fmt.Errorf("statement %d failed", len(responses))
	}
	return nil
}

// readStatements picks the statement source: argument, file, then piped stdin.
func readStatements(cmd *cobra.Command, args []string, opts *ExecOptions) (string, error) {
	switch {
	case len(args) == 1 && opts.File != "":
		return "", errors.New("pass statements either as an argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case opts.File == "-":
		return readAll(cmd.InOrStdin())
	case opts.File != "":
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", opts.File, err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no statements given (pass an argument, --file, or pipe them on stdin)")
	}
	return readAll(in)
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
