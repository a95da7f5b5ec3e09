package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/pkg/portal"
)

type app struct {
	cfg    portal.Config
	client *portal.Client
	logger *slog.Logger
	out    io.Writer
}

func newApp(cfg portal.Config, logger *slog.Logger) (*app, error) {
	sess := portal.NewSessionContext(cfg.TokenFile)
	if err := sess.Restore(); err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		client: portal.NewClient(cfg, portal.WithSession(sess), portal.WithLogger(logger)),
		logger: logger,
		out:    os.Stdout,
	}, nil
}

var errNotSignedIn = errors.New("not signed in; run scanctl login")

func (a *app) requireSession() error {
	if !a.client.Session().SignedIn() {
		return errNotSignedIn
	}
	return nil
}

// stringList collects a repeated flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func needArgs(fs *flag.FlagSet, n int) error {
	if fs.NArg() < n {
		return fmt.Errorf("%s: expected at least %d argument(s)", fs.Name(), n)
	}
	return nil
}

// splitPair parses KEY=VALUE.
func splitPair(arg string) (string, string, error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected KEY=VALUE, got %q", arg)
	}
	return k, v, nil
}

func candidates(paths []string) ([]upload.Candidate, error) {
	out := make([]upload.Candidate, 0, len(paths))
	for _, p := range paths {
		c, err := upload.FromPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func optionalCandidate(path string) (*upload.Candidate, error) {
	if path == "" {
		return nil, nil
	}
	c, err := upload.FromPath(path)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (a *app) progress(label string) portal.Progress {
	return func(pct int) {
		fmt.Fprintf(os.Stderr, "\r%s %3d%%", label, pct)
		if pct == 100 {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func (a *app) printList(list []quotation.Quotation) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROJECT\tSTATUS\tHOURS\tFILES\tUPDATED")
	for _, q := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			q.ID, q.ProjectName, q.Status, formatHours(q.RequiredHour), len(q.Files), q.UpdatedAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func (a *app) printQuotation(q quotation.Quotation, aff portal.Affordances) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Project:\t%s\n", q.ProjectName)
	fmt.Fprintf(tw, "Status:\t%s\n", q.Status)
	if q.POStatus != nil {
		fmt.Fprintf(tw, "PO:\t%s\n", *q.POStatus)
	}
	fmt.Fprintf(tw, "Hours:\t%s\n", formatHours(q.RequiredHour))
	fmt.Fprintf(tw, "Technical:\t%s\n", strings.Join(q.TechnicalInfo, ", "))
	if q.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", q.Notes)
	}
	if q.RejectionReason != "" {
		fmt.Fprintf(tw, "Rejected:\t%s %s\n", q.RejectionReason, q.RejectionDetails)
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out)
	tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE ID\tNAME\tSIZE\tHOURS\tSTATUS\tREPORT")
	for _, f := range q.Files {
		name := f.OriginalName
		if f.OriginalLink != "" {
			name = f.OriginalLink
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, name, upload.FormatBytes(f.Size), formatHours(f.RequiredHour), f.Status, f.UserReportedStatus)
	}
	_ = tw.Flush()

	if len(aff.Actions) > 0 {
		names := make([]string, 0, len(aff.Actions))
		for _, act := range aff.Actions {
			names = append(names, string(act))
		}
		fmt.Fprintf(a.out, "\nAvailable: %s\n", strings.Join(names, ", "))
	}
	if aff.Approval != nil && !aff.Approval.Approve {
		fmt.Fprintf(a.out, "Missing %s hours. Buy hours or upload a purchase order.\n", formatHours(aff.Approval.MissingHours))
		if aff.Approval.PendingPO {
			fmt.Fprintln(a.out, "A purchase order is awaiting review.")
		}
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}
