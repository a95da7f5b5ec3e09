// Command scanctl drives the scan-to-CAD portal from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/linskybing/scan2cad/pkg/portal"
)

type command struct {
	usage string
	run   func(ctx context.Context, app *app, args []string) error
}

var commands = map[string]command{
	"login":         {"login -email E -password P", cmdLogin},
	"logout":        {"logout", cmdLogout},
	"whoami":        {"whoami", cmdWhoami},
	"submit":        {"submit -name N -description D -tech flags [-link URL]... [-info PATH]... [MODEL...]", cmdSubmit},
	"list":          {"list [-status S] [-search Q] [-all]", cmdList},
	"show":          {"show ID", cmdShow},
	"quote":         {"quote [-update] [-doc PATH] ID FILE_ID=HOURS...", cmdQuote},
	"approve":       {"approve ID", cmdApprove},
	"reject":        {"reject [-reason R] [-details D] ID", cmdReject},
	"start":         {"start ID", cmdStart},
	"complete":      {"complete [-invoice PATH] ID FILE...", cmdComplete},
	"report":        {"report [-note N] ID FILE_ID=ok|FILE_ID=issued[:note]...", cmdReport},
	"reupload":      {"reupload ID FILE_ID=PATH...", cmdReupload},
	"po":            {"po ID PATH", cmdSubmitPO},
	"po-decide":     {"po-decide ID approved|rejected", cmdDecidePO},
	"notes":         {"notes ID TEXT", cmdNotes},
	"download":      {"download [-kind original|completed|document] ID FILE_ID", cmdDownload},
	"hours":         {"hours [-grant N -user ID]", cmdHours},
	"buy":           {"buy -hours N -token T -method M", cmdBuy},
	"rates":         {"rates", cmdRates},
	"notifications": {"notifications [-unread] [-read-all]", cmdNotifications},
	"watch":         {"watch [ID]", cmdWatch},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scanctl <command> [flags]")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[n].usage)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if os.Getenv("SCAN2CAD_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := portal.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		report(err)
		os.Exit(1)
	}
}

func report(err error) {
	var verr *portal.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return
	}
	var apiErr *portal.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(os.Stderr, apiErr.Message)
		for field, msg := range apiErr.Details {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
