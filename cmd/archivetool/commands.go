package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"go.hasen.dev/archive"
	"go.hasen.dev/archive/boltstore"
	"go.hasen.dev/archive/internal/inventory"
)

var kinds = map[string]func() archive.Record{
	"inventory": func() archive.Record { return new(inventory.Inventory) },
	"sample":    func() archive.Record { return new(inventory.Sample) },
}

var demos = map[string]func() archive.Record{
	"inventory": func() archive.Record { return inventory.Demo() },
	"sample":    func() archive.Record { return inventory.NewSample() },
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "kind",
		Value: "inventory",
		Usage: "Record kind: inventory, sample",
	}
}

func newRecord(c *cli.Context) (archive.Record, error) {
	mk, ok := kinds[c.String("kind")]
	if !ok {
		return nil, errors.Errorf("unknown record kind %q", c.String("kind"))
	}
	return mk(), nil
}

// Files ending in .txt hold the text format, anything else is binary.
func isText(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

func readRecord(path string, r archive.Record, opts []archive.Option) error {
	if isText(path) {
		return archive.ReadTextFile(path, r, opts...)
	}
	return archive.ReadBinaryFile(path, r, opts...)
}

// writeRecord writes text to stdout when path is "-".
func writeRecord(stdout io.Writer, path string, r archive.Record, opts []archive.Option) error {
	switch {
	case path == "-":
		return archive.WriteText(stdout, r, opts...)
	case isText(path):
		return archive.WriteTextFile(path, r, opts...)
	default:
		return archive.WriteMappedFile(path, r, opts...)
	}
}

func args(c *cli.Context, n int) ([]string, error) {
	if c.NArg() != n {
		return nil, errors.Errorf("%s: expected %d arguments, got %d", c.Command.Name, n, c.NArg())
	}
	return c.Args().Slice(), nil
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:      "demo",
		Usage:     "Write a populated example record",
		ArgsUsage: "OUT",
		Flags:     []cli.Flag{kindFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := configure(c)
			if err != nil {
				return err
			}
			a, err := args(c, 1)
			if err != nil {
				return err
			}
			mk, ok := demos[c.String("kind")]
			if !ok {
				return errors.Errorf("unknown record kind %q", c.String("kind"))
			}
			return writeRecord(c.App.Writer, a[0], mk(), cfg.archiveOptions())
		},
	}
}

func transcodeCommand(name, usage string, check func(in, out string) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "IN OUT",
		Flags:     []cli.Flag{kindFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := configure(c)
			if err != nil {
				return err
			}
			a, err := args(c, 2)
			if err != nil {
				return err
			}
			if err := check(a[0], a[1]); err != nil {
				return err
			}
			r, err := newRecord(c)
			if err != nil {
				return err
			}
			opts := cfg.archiveOptions()
			if err := readRecord(a[0], r, opts); err != nil {
				return err
			}
			return writeRecord(c.App.Writer, a[1], r, opts)
		},
	}
}

func encodeCommand() *cli.Command {
	return transcodeCommand("encode", "Convert a text record to binary", func(in, out string) error {
		if !isText(in) || isText(out) || out == "-" {
			return errors.New("encode: expected a .txt input and a binary output")
		}
		return nil
	})
}

func decodeCommand() *cli.Command {
	return transcodeCommand("decode", "Convert a binary record to text", func(in, out string) error {
		if isText(in) || (!isText(out) && out != "-") {
			return errors.New("decode: expected a binary input and a .txt output or -")
		}
		return nil
	})
}

func sizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "size",
		Usage:     "Print the binary size of a record",
		ArgsUsage: "IN",
		Flags:     []cli.Flag{kindFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := configure(c)
			if err != nil {
				return err
			}
			a, err := args(c, 1)
			if err != nil {
				return err
			}
			r, err := newRecord(c)
			if err != nil {
				return err
			}
			if err := readRecord(a[0], r, cfg.archiveOptions()); err != nil {
				return err
			}
			size, err := archive.SizeOf(r, cfg.archiveOptions()...)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, size)
			return nil
		},
	}
}

// convertedPath swaps the extension of path for the other format's.
func convertedPath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if isText(path) {
		return base + ".bin"
	}
	return base + ".txt"
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert each file to the other format, in parallel",
		ArgsUsage: "FILE...",
		Flags:     []cli.Flag{kindFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := configure(c)
			if err != nil {
				return err
			}
			if _, err := newRecord(c); err != nil {
				return err
			}
			opts := cfg.archiveOptions()

			var g errgroup.Group
			g.SetLimit(cfg.Jobs)
			for _, in := range c.Args().Slice() {
				g.Go(func() error {
					// each goroutine owns its record and archives
					r, _ := newRecord(c)
					if err := readRecord(in, r, opts); err != nil {
						return errors.Wrapf(err, "convert %s", in)
					}
					out := convertedPath(in)
					if err := writeRecord(c.App.Writer, out, r, opts); err != nil {
						return errors.Wrapf(err, "convert %s", in)
					}
					logrus.WithField("in", in).WithField("out", out).Info("converted")
					return nil
				})
			}
			return g.Wait()
		},
	}
}

func storeCommand() *cli.Command {
	dbFlag := &cli.StringFlag{Name: "db", Required: true, Usage: "Bolt database file"}
	bucketFlag := &cli.StringFlag{Name: "bucket", Value: "records", Usage: "Bucket name"}

	open := func(c *cli.Context, readOnly bool) (*boltstore.Store, Config, error) {
		cfg, err := configure(c)
		if err != nil {
			return nil, cfg, err
		}
		s, err := boltstore.Open(c.String("db"), boltstore.Options{
			ReadOnly: readOnly,
			Archive:  cfg.archiveOptions(),
		})
		return s, cfg, err
	}

	return &cli.Command{
		Name:  "store",
		Usage: "Keep records in a bolt database",
		Subcommands: []*cli.Command{
			{
				Name:      "put",
				ArgsUsage: "KEY IN",
				Flags:     []cli.Flag{dbFlag, bucketFlag, kindFlag()},
				Action: func(c *cli.Context) error {
					a, err := args(c, 2)
					if err != nil {
						return err
					}
					s, cfg, err := open(c, false)
					if err != nil {
						return err
					}
					defer s.Close()
					r, err := newRecord(c)
					if err != nil {
						return err
					}
					if err := readRecord(a[1], r, cfg.archiveOptions()); err != nil {
						return err
					}
					return s.Put(c.String("bucket"), a[0], r)
				},
			},
			{
				Name:      "get",
				ArgsUsage: "KEY OUT",
				Flags:     []cli.Flag{dbFlag, bucketFlag, kindFlag()},
				Action: func(c *cli.Context) error {
					a, err := args(c, 2)
					if err != nil {
						return err
					}
					s, cfg, err := open(c, true)
					if err != nil {
						return err
					}
					defer s.Close()
					r, err := newRecord(c)
					if err != nil {
						return err
					}
					if err := s.Get(c.String("bucket"), a[0], r); err != nil {
						return err
					}
					return writeRecord(c.App.Writer, a[1], r, cfg.archiveOptions())
				},
			},
			{
				Name:  "list",
				Flags: []cli.Flag{dbFlag, bucketFlag},
				Action: func(c *cli.Context) error {
					s, _, err := open(c, true)
					if err != nil {
						return err
					}
					defer s.Close()
					keys, err := s.Keys(c.String("bucket"))
					if err != nil {
						return err
					}
					sort.Strings(keys)
					for _, k := range keys {
						fmt.Fprintln(c.App.Writer, k)
					}
					return nil
				},
			},
		},
	}
}
