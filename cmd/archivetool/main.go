// archivetool converts inventory records between the binary and text
// archive formats and keeps them in a bolt store.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	Version   = "development"
	BuildTime = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "archivetool",
		Usage:   "Inspect and convert archived inventory records",
		Version: Version + " (" + BuildTime + ")",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.IntFlag{
				Name:  "jobs",
				Value: 4,
				Usage: "Number of files converted in parallel",
			},
			&cli.BoolFlag{
				Name:  "strict-text",
				Usage: "Reject consecutive delimiters when reading text",
			},
		},
		Commands: []*cli.Command{
			demoCommand(),
			encodeCommand(),
			decodeCommand(),
			sizeCommand(),
			convertCommand(),
			storeCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("archivetool failed")
	}
}
