package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/pkg/portal"
	"github.com/linskybing/scan2cad/pkg/portal/live"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", u.Email, u.Role)
	return nil
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	return a.client.Logout()
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s hours=%s\n", u.Name, u.Email, u.Role, formatHours(u.AvailableHours))
	return nil
}

func cmdSubmit(ctx context.Context, a *app, args []string) error {
	fs := newFlags("submit")
	var links, infos stringList
	form := quotation.FormInput{}
	fs.StringVar(&form.ProjectName, "name", "", "project name")
	fs.StringVar(&form.Description, "description", "", "project description")
	tech := fs.String("tech", "", "comma separated technical options")
	fs.StringVar(&form.Deliverables, "deliverables", "", "expected deliverables")
	fs.StringVar(&form.Software, "software", "", "target CAD software")
	fs.StringVar(&form.SoftwareVersion, "version", "", "target software version")
	fs.Var(&links, "link", "external model link (repeatable)")
	fs.Var(&infos, "info", "supporting document (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	form.TechnicalInfo = quotation.ParseTechnicalInfo(*tech)

	sess := upload.NewSession(upload.DefaultPolicies())
	if len(links) > 0 {
		sess.Mode = upload.ModeLinks
		for _, l := range links {
			if err := sess.AddLink(l); err != nil {
				return fmt.Errorf("%s: %w", l, err)
			}
		}
	}
	models, err := candidates(fs.Args())
	if err != nil {
		return err
	}
	if _, notice := sess.AddFiles(models...); notice != "" {
		fmt.Fprintln(a.out, notice)
	}
	docs, err := candidates(infos)
	if err != nil {
		return err
	}
	if _, notice := sess.AddInfoFiles(docs...); notice != "" {
		fmt.Fprintln(a.out, notice)
	}

	q, err := portal.NewSubmitter(a.client).Submit(ctx, form, sess, a.progress("uploading"))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "submitted %s (%s)\n", q.ID, q.Status)
	return nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	fs := newFlags("list")
	status := fs.String("status", "", "filter by status")
	search := fs.String("search", "", "search project names")
	all := fs.Bool("all", false, "list every quotation (admin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	var (
		list []quotation.Quotation
		err  error
	)
	if *all {
		list, err = a.client.ListQuotations(ctx, quotation.ListFilter{Status: quotation.Status(*status), Search: *search})
	} else {
		list, err = a.client.MyQuotations(ctx)
	}
	if err != nil {
		return err
	}
	a.printList(list)
	return nil
}

// load fetches a quotation together with the viewer's affordances.
func (a *app) load(ctx context.Context, id string) (quotation.Quotation, portal.Affordances, error) {
	if err := a.requireSession(); err != nil {
		return quotation.Quotation{}, portal.Affordances{}, err
	}
	q, err := a.client.GetQuotation(ctx, id)
	if err != nil {
		return q, portal.Affordances{}, err
	}
	me, err := a.client.Me(ctx)
	if err != nil {
		return q, portal.Affordances{}, err
	}
	return q, portal.AffordancesFor(q, me), nil
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	fs := newFlags("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	q, aff, err := a.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	a.printQuotation(q, aff)
	return nil
}

func cmdQuote(ctx context.Context, a *app, args []string) error {
	fs := newFlags("quote")
	update := fs.Bool("update", false, "edit hours on an existing quote")
	doc := fs.String("doc", "", "quotation document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	var in quotation.HoursInput
	for _, arg := range fs.Args()[1:] {
		id, raw, err := splitPair(arg)
		if err != nil {
			return err
		}
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("hours for %s: %w", id, err)
		}
		in.Files = append(in.Files, quotation.FileHours{FileID: id, RequiredHour: h})
	}

	var (
		q   quotation.Quotation
		err error
	)
	if *update {
		q, err = a.client.UpdateHours(ctx, fs.Arg(0), in)
	} else {
		var c *upload.Candidate
		if c, err = optionalCandidate(*doc); err != nil {
			return err
		}
		q, err = a.client.RaiseQuote(ctx, fs.Arg(0), in, c)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s quoted at %s hours\n", q.ID, formatHours(q.RequiredHour))
	return nil
}

func cmdApprove(ctx context.Context, a *app, args []string) error {
	fs := newFlags("approve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	q, aff, err := a.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if !aff.Has(quotation.ActionApprove) {
		if aff.Approval != nil {
			return fmt.Errorf("cannot approve: %s more hours needed", formatHours(aff.Approval.MissingHours))
		}
		return fmt.Errorf("cannot approve a %s quotation", q.Status)
	}
	q, err = a.client.Decide(ctx, q.ID, quotation.DecisionInput{Status: quotation.StatusApproved})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", q.ID, q.Status)
	return nil
}

func cmdReject(ctx context.Context, a *app, args []string) error {
	fs := newFlags("reject")
	in := quotation.DecisionInput{Status: quotation.StatusRejected}
	fs.StringVar(&in.Reason, "reason", "", "rejection reason")
	fs.StringVar(&in.Details, "details", "", "additional details")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	q, err := a.client.Decide(ctx, fs.Arg(0), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", q.ID, q.Status)
	return nil
}

func cmdStart(ctx context.Context, a *app, args []string) error {
	fs := newFlags("start")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	q, err := a.client.StartWork(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", q.ID, q.Status)
	return nil
}

func cmdComplete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("complete")
	invoice := fs.String("invoice", "", "invoice document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	q, _, err := a.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	files, err := candidates(fs.Args()[1:])
	if err != nil {
		return err
	}
	inv, err := optionalCandidate(*invoice)
	if err != nil {
		return err
	}
	q, err = a.client.Complete(ctx, q, files, inv, a.progress("delivering"))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", q.ID, q.Status)
	return nil
}

func cmdReport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("report")
	note := fs.String("note", "", "overall note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	q, _, err := a.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	in := quotation.ReportInput{MainNote: *note}
	for _, arg := range fs.Args()[1:] {
		id, verdict, err := splitPair(arg)
		if err != nil {
			return err
		}
		status, fileNote, _ := strings.Cut(verdict, ":")
		in.FileReports = append(in.FileReports, quotation.FileReport{
			FileID: id,
			Status: quotation.ReportStatus(status),
			Note:   fileNote,
		})
	}
	q, err = a.client.ReportIssues(ctx, q, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", q.ID, q.Status)
	return nil
}

func cmdReupload(ctx context.Context, a *app, args []string) error {
	fs := newFlags("reupload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 1); err != nil {
		return err
	}
	q, _, err := a.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	replacements := map[string]upload.Candidate{}
	for _, arg := range fs.Args()[1:] {
		id, path, err := splitPair(arg)
		if err != nil {
			return err
		}
		c, err := upload.FromPath(path)
		if err != nil {
			return err
		}
		replacements[id] = c
	}
	q, err = a.client.UploadIssued(ctx, q, replacements, a.progress("reuploading"))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", q.ID, q.Status)
	return nil
}

func cmdSubmitPO(ctx context.Context, a *app, args []string) error {
	fs := newFlags("po")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	doc, err := upload.FromPath(fs.Arg(1))
	if err != nil {
		return err
	}
	q, err := a.client.SubmitPO(ctx, fs.Arg(0), doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s purchase order %s\n", q.ID, *q.POStatus)
	return nil
}

func cmdDecidePO(ctx context.Context, a *app, args []string) error {
	fs := newFlags("po-decide")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	q, err := a.client.DecidePO(ctx, fs.Arg(0), quotation.POStatus(fs.Arg(1)))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s purchase order %s\n", q.ID, *q.POStatus)
	return nil
}

func cmdNotes(ctx context.Context, a *app, args []string) error {
	fs := newFlags("notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	_, err := a.client.UpdateNotes(ctx, fs.Arg(0), strings.Join(fs.Args()[1:], " "))
	return err
}

func cmdDownload(ctx context.Context, a *app, args []string) error {
	fs := newFlags("download")
	kind := fs.String("kind", string(quotation.DownloadOriginal), "original, completed or document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs, 2); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	link, err := a.client.DownloadURL(ctx, fs.Arg(0), fs.Arg(1), quotation.DownloadKind(*kind))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n%s\n", link.Name, link.URL)
	return nil
}

func cmdHours(ctx context.Context, a *app, args []string) error {
	fs := newFlags("hours")
	grant := fs.Float64("grant", 0, "hours to grant (admin)")
	userID := fs.Uint("user", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	id := *userID
	if id == 0 {
		id = a.client.Session().User().ID
	}
	if *grant != 0 {
		h, err := a.client.GrantHours(ctx, id, *grant)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "user %d now has %s hours\n", h.UserID, formatHours(h.AvailableHours))
		return nil
	}
	h, err := a.client.Hours(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s hours available\n", formatHours(h.AvailableHours))
	return nil
}

func cmdBuy(ctx context.Context, a *app, args []string) error {
	fs := newFlags("buy")
	in := payment.PurchaseInput{}
	fs.Float64Var(&in.Hours, "hours", 0, "hours to buy")
	fs.StringVar(&in.Token, "token", "", "card token from checkout")
	fs.StringVar(&in.PaymentMethodID, "method", "", "payment method id")
	fs.StringVar(&in.IssuerID, "issuer", "", "card issuer id")
	fs.IntVar(&in.Installments, "installments", 1, "installments")
	fs.StringVar(&in.PayerEmail, "email", "", "payer email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	p, err := a.client.PurchaseHours(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "payment %s: %s\n", p.ID, p.Status)
	return nil
}

func cmdRates(ctx context.Context, a *app, _ []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	r, err := a.client.ActiveRate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %.2f per hour\n", r.Currency, r.HourlyRate)
	return nil
}

func cmdNotifications(ctx context.Context, a *app, args []string) error {
	fs := newFlags("notifications")
	unread := fs.Bool("unread", false, "only unread")
	readAll := fs.Bool("read-all", false, "mark everything read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	if *readAll {
		n, err := a.client.MarkAllNotificationsRead(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d marked read\n", n)
		return nil
	}
	list, err := a.client.Notifications(ctx, notification.ListOptions{UnreadOnly: *unread})
	if err != nil {
		return err
	}
	for _, n := range list {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s: %s\n", mark, n.CreatedAt.Format("2006-01-02 15:04"), n.Title, n.Message)
	}
	return nil
}

// cmdWatch keeps a view on screen and redraws it whenever the server
// announces a change.
func cmdWatch(ctx context.Context, a *app, args []string) error {
	fs := newFlags("watch")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	scope := live.Dashboard()
	fetch := func(ctx context.Context) error {
		list, err := a.client.MyQuotations(ctx)
		if err != nil {
			return err
		}
		a.printList(list)
		return nil
	}
	if fs.NArg() > 0 {
		id := fs.Arg(0)
		scope = live.ForQuotation(id)
		fetch = func(ctx context.Context) error {
			q, aff, err := a.load(ctx, id)
			if err != nil {
				return err
			}
			a.printQuotation(q, aff)
			return nil
		}
	}

	session := a.client.Session()
	notifier := live.NewFallbackNotifier(
		live.NewSocketNotifier(a.cfg.SocketURL, session.Token, live.WithSocketLogger(a.logger)),
		live.NewPollingNotifier(a.cfg.PollInterval),
	)
	defer notifier.Close()

	r := live.NewRefresher(notifier, scope, fetch, live.WithDebounce(a.cfg.Debounce), live.WithRefresherLogger(a.logger))
	if err := fetch(ctx); err != nil {
		return err
	}
	r.Start(ctx)
	defer r.Stop()

	<-ctx.Done()
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
