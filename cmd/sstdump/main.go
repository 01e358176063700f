// Command sstdump inspects, searches, builds, snapshots and restores value
// table files.
//
// Usage:
//
//	sstdump <command> [flags] <args>
//
// Configuration is read from an optional JSONC file (--config) and
// overridden by flags.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func commands() []*Command {
	return []*Command{
		listCmd(),
		findCmd(),
		statsCmd(),
		importCmd(),
		snapshotCmd(),
		restoreCmd(),
		configCmd(),
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmds := commands()

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout, cmds)
		return 0
	}

	for _, c := range cmds {
		if c.Name() == args[0] {
			return c.Run(stdin, stdout, stderr, args[1:])
		}
	}

	fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
	printUsage(stderr, cmds)

	return 2
}

func printUsage(w io.Writer, cmds []*Command) {
	fmt.Fprintln(w, "Usage: sstdump <command> [flags] <args>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range cmds {
		fmt.Fprintln(w, c.HelpLine())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Run "sstdump <command> --help" for command flags.`)
}
