package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"
)

// env carries the resolved configuration and output streams of one run.
type env struct {
	cfg    Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	Flags *flag.FlagSet

	// Usage is shown after "sstdump" in help; its first word is the command name.
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Args is the number of required positional arguments; Optional more may follow.
	Args     int
	Optional int

	// Exec runs the command after flags are parsed and config resolved.
	Exec func(e *env, args []string) error

	global globalFlags
}

func newCommand(usage, short string, args, optional int, exec func(e *env, args []string) error) *Command {
	c := &Command{
		Flags:    flag.NewFlagSet(usage, flag.ContinueOnError),
		Usage:    usage,
		Short:    short,
		Args:     args,
		Optional: optional,
		Exec:     exec,
	}
	c.global.register(c.Flags)

	return c
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-36s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "sstdump <cmd> --help".
func (c *Command) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: sstdump", c.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")

	var buf strings.Builder
	c.Flags.SetOutput(&buf)
	c.Flags.PrintDefaults()
	fmt.Fprint(w, buf.String())
}

// Run parses flags, resolves the config and executes the command. Returns the exit code.
func (c *Command) Run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(stdout)
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		c.PrintHelp(stderr)

		return 2
	}

	rest := c.Flags.Args()
	if len(rest) < c.Args || len(rest) > c.Args+c.Optional {
		fmt.Fprintf(stderr, "error: %s expects %d to %d arguments, got %d\n", c.Name(), c.Args, c.Args+c.Optional, len(rest))
		c.PrintHelp(stderr)

		return 2
	}

	cfg, err := LoadConfig(c.Flags, &c.global)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	e := &env{
		cfg:    cfg,
		logger: newLogger(stderr, cfg),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	e.logger.Debug("config resolved", "command", c.Name(), "compression", cfg.Compression, "hash_index", cfg.HashIndex)

	if err := c.Exec(e, rest); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	return 0
}
