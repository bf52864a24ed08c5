package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"diskmanager/internal/config"
	"diskmanager/internal/logging"

	"github.com/jessevdk/go-flags"
)

// Version is overridden at link time
var Version = "0.1.0"

type Options struct {
	Config  flags.Filename `short:"c" long:"config" description:"Configuration file to use (default: XDG config home)" env:"DISKMANAGER_CONFIG"`
	Verbose []bool         `short:"v" long:"verbose" description:"Enable more verbose output (can be set multiple times)"`
	Version bool           `short:"V" long:"version" description:"Print version and exits"`
}

var opts = &Options{}

var parser = flags.NewParser(opts, flags.Default)

// loadConfig reads the configuration selected by the global options
func loadConfig() (config.Config, error) {
	return config.Load(string(opts.Config))
}

// setUpLogger configures logrus from the configuration and the verbose
// flags. An empty file logs to stderr.
func setUpLogger(cfg config.Config, file string) (io.Closer, error) {
	lvl, err := logging.Level(cfg.Logging.Level, len(opts.Verbose))
	if err != nil {
		return nil, err
	}
	return logging.Setup(lvl, file)
}

func Execute() error {
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if opts.Version {
			fmt.Printf("%s %s\n", config.AppName, Version)
			return nil
		}
		if cmd == nil {
			parser.WriteHelp(os.Stderr)
			return errors.New("missing command")
		}
		return cmd.Execute(args)
	}

	_, err := parser.Parse()
	if err != nil && flags.WroteHelp(err) == true {
		return nil
	}
	return err
}

func main() {
	// parser errors are already printed by go-flags
	if err := Execute(); err != nil {
		os.Exit(2)
	}
}
