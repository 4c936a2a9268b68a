package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/appleboy/strava-relay/internal/bootstrap"
	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/logger"
	"github.com/appleboy/strava-relay/internal/version"

	"go.uber.org/zap"
)

const usageText = `Usage: %s [OPTIONS] COMMAND

Relays new Strava activities to a chat webhook

Commands:
  server    Start the relay server

Options:
  -v, --version    Show version information
  -h, --help       Show this help message
`

// serve starts the relay; replaced in tests.
var serve = runServer

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	name := "strava-relay"
	if len(args) > 0 {
		name = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintf(stderr, usageText, name) }

	var showVersion bool
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		version.Fprint(stdout)
		return 0
	}

	switch cmd := fs.Arg(0); cmd {
	case "server":
		return serve()
	case "":
		fs.Usage()
		return 1
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		fs.Usage()
		return 1
	}
}

func runServer() int {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.IsProduction)
	defer func() { _ = log.Sync() }()

	log.Info("starting strava relay", zap.String("version", version.String()))

	if err := bootstrap.Run(context.Background(), cfg, log); err != nil {
		log.Error("strava relay failed", zap.Error(err))
		return 1
	}
	return 0
}
