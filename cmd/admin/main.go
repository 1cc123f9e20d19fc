// Command admin bundles the operational utilities: seeding sample data and
// generating web-push VAPID keys.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"classly/internal/config"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	cfg *config.Config
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seed [-driver sqlite|postgres] [-dsn DSN] - populate the database with sample data")
	fmt.Println("  vapidkeys                                 - generate a web-push VAPID key pair")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "seed":
		seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
		driver := seedCmd.String("driver", cli.cfg.Database.Driver, "database driver (sqlite or postgres)")
		dsn := seedCmd.String("dsn", cli.cfg.Database.DSN, "database connection string")
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*driver, *dsn)
	case "vapidkeys":
		return cli.vapidKeys()
	default:
		cli.printUsage()
		return errHelp
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cli := &commandLine{cfg: cfg}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
