package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf16"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/format"
	"github.com/arloliu/sst/record"
	"github.com/arloliu/sst/snapshot"
	"github.com/arloliu/sst/table"
)

var (
	errNotFound = errors.New("value not found")
	errBadChar  = errors.New("--char needs exactly one UTF-16 code unit")
	errNotTable = errors.New("not a table or snapshot file")
)

// openTable opens an existing table file with the configured options.
func openTable(e *env, path string) (*table.Table, error) {
	return table.Open(path, e.cfg.TableOptions(e.logger)...)
}

// inspectTable opens a table file read-only, so inspecting never writes to it.
func inspectTable(e *env, path string) (*table.Table, error) {
	return table.Open(path, append(e.cfg.TableOptions(e.logger), table.WithReadOnly(true))...)
}

// closeTable closes t and reports the close error unless err is already set.
func closeTable(t *table.Table, err *error) {
	if cerr := t.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func formatValue(v record.Value) string {
	if v.IsNull() {
		return "<null>"
	}

	return strconv.Quote(v.Text())
}

func listCmd() *Command {
	var (
		skip  int
		limit int
	)
	c := newCommand("list <table>", "Print the records of a table in index order", 1, 0,
		func(e *env, args []string) (err error) {
			t, err := inspectTable(e, args[0])
			if err != nil {
				return err
			}
			defer closeTable(t, &err)

			it, err := t.Iterator()
			if err != nil {
				return err
			}
			defer it.Close()

			w := bufio.NewWriter(e.stdout)
			printed := 0
			for it.Next() {
				if it.Index() < skip {
					continue
				}
				if limit > 0 && printed >= limit {
					break
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", it.Index(), it.Value().Kind(), formatValue(it.Value()))
				printed++
			}
			if err := it.Err(); err != nil {
				return err
			}

			return w.Flush()
		})
	c.Flags.IntVar(&skip, "skip", 0, "skip the first `n` records")
	c.Flags.IntVarP(&limit, "limit", "n", 0, "print at most `n` records (0 prints all)")

	return c
}

func findCmd() *Command {
	var (
		asChar bool
		asNull bool
		from   table.Position
	)
	c := newCommand("find <table> [value]", "Print the index of the first record equal to value", 1, 1,
		func(e *env, args []string) (err error) {
			var v record.Value
			switch {
			case asNull:
				v = record.Null()
			case len(args) < 2:
				return errors.New("find needs a value unless --null is given")
			case asChar:
				units := utf16.Encode([]rune(args[1]))
				if len(units) != 1 {
					return errBadChar
				}
				v = record.Char(units[0])
			default:
				v = record.String(args[1])
			}

			t, err := inspectTable(e, args[0])
			if err != nil {
				return err
			}
			defer closeTable(t, &err)

			idx, err := t.FindFrom(v, from)
			if err != nil {
				return err
			}
			if idx == table.NotFound {
				return fmt.Errorf("%w: %s", errNotFound, formatValue(v))
			}

			_, err = fmt.Fprintln(e.stdout, idx)

			return err
		})
	c.Flags.BoolVar(&asChar, "char", false, "search for a character record")
	c.Flags.BoolVar(&asNull, "null", false, "search for a null record")
	c.Flags.Int64Var(&from.Offset, "offset", 0, "start the search at this log `offset` (a record boundary)")
	c.Flags.IntVar(&from.Index, "index", 0, "index of the record at --offset, added to the result")

	return c
}

func statsCmd() *Command {
	return newCommand("stats <file>", "Describe a table file or a snapshot", 1, 0,
		func(e *env, args []string) error {
			header, err := snapshot.ReadHeader(args[0])
			switch {
			case err == nil:
				info, err := os.Stat(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(e.stdout, "type:        snapshot\nversion:     %d\ncompression: %s\nrecords:     %d\nsize:        %d\n",
					header.Version, header.Compression, header.Count, info.Size())

				return nil
			case errors.Is(err, errs.ErrInvalidMagicNumber), errors.Is(err, errs.ErrCorruptSnapshot):
				return tableStats(e, args[0])
			default:
				return err
			}
		})
}

func tableStats(e *env, path string) (err error) {
	t, err := inspectTable(e, path)
	if err != nil {
		return err
	}
	defer closeTable(t, &err)

	if verr := t.Verify(); verr != nil {
		return fmt.Errorf("%w: %s: %w", errNotTable, path, verr)
	}

	counts := make(map[format.Kind]int)
	it, err := t.Iterator()
	if err != nil {
		return err
	}
	defer it.Close()

	textBytes := 0
	for it.Next() {
		counts[it.Value().Kind()]++
		textBytes += len(it.Text())
	}
	if err := it.Err(); err != nil {
		return err
	}

	pos := t.Position()
	_, err = fmt.Fprintf(e.stdout, "type:        table\nrecords:     %d\nlog bytes:   %d\ntext bytes:  %d\nchars:       %d\nstrings:     %d\nnulls:       %d\n",
		pos.Index, pos.Offset, textBytes, counts[format.KindChar], counts[format.KindString], counts[format.KindNull])

	return err
}

func importCmd() *Command {
	var dedup bool
	c := newCommand("import <table> [input]", "Build a table from the lines of input (stdin by default)", 1, 1,
		func(e *env, args []string) (err error) {
			in := e.stdin
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			if err := os.WriteFile(args[0], nil, 0o644); err != nil { //nolint:gosec
				return err
			}

			t, err := openTable(e, args[0])
			if err != nil {
				return err
			}
			defer closeTable(t, &err)

			pushed, lines, err := importLines(t, in, dedup)
			if err != nil {
				return err
			}
			e.logger.Info("import finished", "path", args[0], "lines", lines, "records", pushed)
			_, err = fmt.Fprintf(e.stdout, "%d lines, %d records\n", lines, pushed)

			return err
		})
	c.Flags.BoolVar(&dedup, "dedup", false, "skip lines already present in the table")

	return c
}

// importLines pushes every line of r as a string, or as null for the line "\N".
func importLines(t *table.Table, r io.Reader, dedup bool) (int, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	pushed, lines := 0, 0
	for sc.Scan() {
		lines++

		v := record.String(sc.Text())
		if sc.Text() == `\N` {
			v = record.Null()
		}

		if dedup {
			idx, err := t.Find(v)
			if err != nil {
				return pushed, lines, err
			}
			if idx != table.NotFound {
				continue
			}
		}

		if _, err := t.Push(v); err != nil {
			return pushed, lines, err
		}
		pushed++
	}

	return pushed, lines, sc.Err()
}

func snapshotCmd() *Command {
	return newCommand("snapshot <table> <out>", "Write a compressed snapshot of a table", 2, 0,
		func(e *env, args []string) (err error) {
			t, err := inspectTable(e, args[0])
			if err != nil {
				return err
			}
			defer closeTable(t, &err)

			stats, err := snapshot.Save(t, args[1],
				snapshot.WithCompression(e.cfg.CompressionType()),
				snapshot.WithBlockSize(e.cfg.BlockSize),
				snapshot.WithLogger(e.logger),
			)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(e.stdout, "%d blocks, %d -> %d bytes (%.1f%% saved, %s)\n",
				stats.Blocks, stats.OriginalSize, stats.CompressedSize, stats.SpaceSavings(), stats.Algorithm)

			return err
		})
}

func restoreCmd() *Command {
	return newCommand("restore <snapshot> <out>", "Rebuild a table file from a snapshot", 2, 0,
		func(e *env, args []string) error {
			count, err := snapshot.Restore(args[0], args[1], snapshot.WithLogger(e.logger))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(e.stdout, "%d records restored\n", count)

			return err
		})
}

func configCmd() *Command {
	return newCommand("config", "Print the resolved configuration", 0, 0,
		func(e *env, _ []string) error {
			out, err := FormatConfig(e.cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(e.stdout, out)

			return err
		})
}
