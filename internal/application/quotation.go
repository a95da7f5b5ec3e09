package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/internal/domain/validation"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/storage"
	"gorm.io/gorm"
)

const downloadURLTTL = 15 * time.Minute

// CreateRequest is a new quotation request with its uploads.
type CreateRequest struct {
	Form      quotation.FormInput
	Models    []upload.Candidate
	Links     []string
	InfoFiles []upload.Candidate
}

type QuotationService struct {
	Repos    *repository.Repos
	store    storage.ObjectStore
	events   events.Publisher
	notify   *NotificationService
	alerts   events.Alerter
	policies upload.Policies
	now      func() time.Time
}

func NewQuotationService(repos *repository.Repos, store storage.ObjectStore, publisher events.Publisher, notify *NotificationService, alerts events.Alerter, policies upload.Policies) *QuotationService {
	return &QuotationService{
		Repos:    repos,
		store:    store,
		events:   publisher,
		notify:   notify,
		alerts:   alerts,
		policies: policies,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *QuotationService) Policies() upload.Policies {
	return s.policies
}

func mapQuotationErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuotationNotFound
	}
	return err
}

// Create validates and stores a new request in the requested state. Uploaded
// objects are removed again if the record cannot be saved.
func (s *QuotationService) Create(ctx context.Context, userID uint, req CreateRequest) (quotation.Quotation, error) {
	errs := req.Form.Validate()

	sess := upload.NewSession(s.policies)
	sess.AddFiles(req.Models...)
	sess.AddInfoFiles(req.InfoFiles...)
	if len(req.Models) == 0 {
		sess.Mode = upload.ModeLinks
	} else if len(req.Links) > 0 {
		errs.Add("links", "Send either model files or links, not both")
	}
	for _, l := range req.Links {
		if err := sess.AddLink(l); err != nil {
			errs.Add("links", fmt.Sprintf("%s: %v", l, err))
		}
	}
	errs.Merge(sess.Validate())
	if !errs.Empty() {
		return quotation.Quotation{}, errs
	}

	id := uuid.NewString()
	now := s.now()
	q := quotation.Quotation{
		ID:              id,
		UserID:          userID,
		ProjectName:     strings.TrimSpace(req.Form.ProjectName),
		Description:     strings.TrimSpace(req.Form.Description),
		Deliverables:    strings.TrimSpace(req.Form.Deliverables),
		Software:        strings.TrimSpace(req.Form.Software),
		SoftwareVersion: strings.TrimSpace(req.Form.SoftwareVersion),
		Status:          quotation.Initial(),
		History: []quotation.StatusChange{{
			To:     quotation.Initial(),
			Action: quotation.ActionSubmit,
			Actor:  quotation.ActorUser,
			UserID: userID,
			At:     now,
		}},
	}
	for _, f := range req.Form.TechnicalInfo {
		q.TechnicalInfo = append(q.TechnicalInfo, string(f))
	}

	var uploaded []string
	cleanup := func() { s.removeObjects(uploaded) }

	for i, c := range sess.Models.Items() {
		key := storage.ObjectKey(id, storage.RoleOriginal, i, c.Name)
		if err := s.put(ctx, key, c); err != nil {
			cleanup()
			return quotation.Quotation{}, err
		}
		uploaded = append(uploaded, key)
		q.Files = append(q.Files, quotation.File{
			ID:           uuid.NewString(),
			QuotationID:  id,
			Position:     i,
			OriginalName: c.Name,
			OriginalFile: key,
			Size:         c.Size,
			Status:       quotation.FilePending,
		})
	}
	for _, link := range sess.Links() {
		q.Files = append(q.Files, quotation.File{
			ID:           uuid.NewString(),
			QuotationID:  id,
			Position:     len(q.Files),
			OriginalName: link,
			OriginalLink: link,
			Status:       quotation.FilePending,
		})
	}
	for i, c := range sess.Info.Items() {
		key := storage.ObjectKey(id, storage.RoleInfo, i, c.Name)
		if err := s.put(ctx, key, c); err != nil {
			cleanup()
			return quotation.Quotation{}, err
		}
		uploaded = append(uploaded, key)
		q.InfoFiles = append(q.InfoFiles, quotation.InfoFile{
			ID:          uuid.NewString(),
			QuotationID: id,
			Object:      key,
			Name:        c.Name,
			Size:        c.Size,
		})
	}

	if err := s.Repos.Quotation.Create(&q); err != nil {
		cleanup()
		return quotation.Quotation{}, err
	}

	slog.Info("quotation requested", "quotationID", q.ID, "userID", userID, "files", len(q.Files))
	s.announce(ctx, q, quotation.EventFor(quotation.ActionSubmit),
		"Quotation request received", fmt.Sprintf("We received %q and will send a quote soon.", q.ProjectName),
		"New quotation request", fmt.Sprintf("%q was submitted with %d file(s).", q.ProjectName, len(q.Files)))
	s.alerts.Alert(ctx, fmt.Sprintf("New quotation request: %s (%d files)", q.ProjectName, len(q.Files)))
	return q, nil
}

func (s *QuotationService) List(filter quotation.ListFilter) ([]quotation.Quotation, error) {
	return s.Repos.Quotation.List(filter)
}

func (s *QuotationService) ListMine(userID uint) ([]quotation.Quotation, error) {
	return s.Repos.Quotation.List(quotation.ListFilter{UserID: userID})
}

// Get returns the quotation if the caller owns it or is an admin.
func (s *QuotationService) Get(id string, userID uint, isAdmin bool) (quotation.Quotation, error) {
	q, err := s.Repos.Quotation.GetByID(id)
	if err != nil {
		return quotation.Quotation{}, mapQuotationErr(err)
	}
	if !isAdmin && !q.Owner(userID) {
		return quotation.Quotation{}, ErrForbidden
	}
	return q, nil
}

// RaiseQuote sets per-file hours and moves requested -> quoted.
func (s *QuotationService) RaiseQuote(ctx context.Context, id string, adminID uint, in quotation.HoursInput, doc *upload.Candidate) (quotation.Quotation, error) {
	current, err := s.load(id)
	if err != nil {
		return quotation.Quotation{}, err
	}
	if _, err := quotation.Next(current.Status, quotation.ActionRaise, quotation.ActorAdmin); err != nil {
		return quotation.Quotation{}, err
	}
	if err := checkHours(current.Files, in, true); err != nil {
		return quotation.Quotation{}, err
	}

	var docKey string
	if doc != nil {
		if err := s.policies.For(upload.ContextDocument).Check(doc.Name, doc.Size); err != nil {
			return quotation.Quotation{}, err
		}
		docKey = storage.ObjectKey(id, storage.RoleDocument, 0, "quotation-"+doc.Name)
		if err := s.put(ctx, docKey, *doc); err != nil {
			return quotation.Quotation{}, err
		}
	}

	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		if err := quotation.ApplyHours(q, in.Files, true); err != nil {
			return err
		}
		if docKey != "" {
			q.QuotationDocument = docKey
		}
		return quotation.Apply(q, quotation.ActionRaise, quotation.ActorAdmin, adminID, s.now())
	})
	if err != nil {
		s.removeObjects([]string{docKey})
		return quotation.Quotation{}, err
	}

	s.announce(ctx, q, quotation.EventFor(quotation.ActionRaise),
		"Your quote is ready", fmt.Sprintf("%q was quoted at %.2f hours.", q.ProjectName, q.RequiredHour),
		"", "")
	return q, nil
}

// UpdateHours re-estimates hours without changing status.
func (s *QuotationService) UpdateHours(ctx context.Context, id string, in quotation.HoursInput) (quotation.Quotation, error) {
	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		if err := checkHours(q.Files, in, false); err != nil {
			return err
		}
		return quotation.ApplyHours(q, in.Files, false)
	})
	if err != nil {
		return quotation.Quotation{}, err
	}
	s.announce(ctx, q, quotation.EventHourUpdated,
		"Estimated hours updated", fmt.Sprintf("%q is now estimated at %.2f hours.", q.ProjectName, q.RequiredHour),
		"", "")
	return q, nil
}

// checkHours rejects a submitted total that disagrees with the per-file sum.
func checkHours(files []quotation.File, in quotation.HoursInput, requirePositive bool) error {
	if err := quotation.ValidateHours(files, in.Files, requirePositive); err != nil {
		return err
	}
	if in.TotalHours == nil {
		return nil
	}
	if !quotation.TotalMatches(in.Files, *in.TotalHours) {
		return fmt.Errorf("%w: total %.2f does not match the per-file sum %.2f",
			quotation.ErrHoursInvalid, *in.TotalHours, quotation.EntriesTotal(in.Files))
	}
	return nil
}

// Decide applies the owner's approve or reject. Approval is paid from credit
// hours unless an approved purchase order covers it.
func (s *QuotationService) Decide(ctx context.Context, id string, userID uint, in quotation.DecisionInput) (quotation.Quotation, error) {
	var action quotation.Action
	switch in.Status {
	case quotation.StatusApproved:
		action = quotation.ActionApprove
	case quotation.StatusRejected:
		action = quotation.ActionReject
	default:
		return quotation.Quotation{}, validation.Errors{"status": "Status must be approved or rejected"}
	}

	q, err := s.mutate(id, func(r *repository.Repos, q *quotation.Quotation) error {
		if !q.Owner(userID) {
			return ErrForbidden
		}
		if _, err := quotation.Next(q.Status, action, quotation.ActorUser); err != nil {
			return err
		}
		if action == quotation.ActionReject {
			q.RejectionReason = strings.TrimSpace(in.Reason)
			q.RejectionDetails = strings.TrimSpace(in.Details)
			return quotation.Apply(q, action, quotation.ActorUser, userID, s.now())
		}
		if q.POStatus != nil && *q.POStatus == quotation.POApproved {
			q.ApprovedVia = quotation.ApprovedWithPO
		} else {
			if _, err := r.User.AddHours(userID, -q.RequiredHour); err != nil {
				if errors.Is(err, repository.ErrNegativeBalance) {
					return fmt.Errorf("%w: %.2f hours required", quotation.ErrInsufficientHours, q.RequiredHour)
				}
				return err
			}
			q.ApprovedVia = quotation.ApprovedWithHours
		}
		return quotation.Apply(q, action, quotation.ActorUser, userID, s.now())
	})
	if err != nil {
		return quotation.Quotation{}, err
	}

	verb := "approved"
	if action == quotation.ActionReject {
		verb = "rejected"
	}
	s.announce(ctx, q, quotation.EventFor(action),
		"", "",
		"Quotation "+verb, fmt.Sprintf("The customer %s %q.", verb, q.ProjectName))
	if q.ApprovedVia == quotation.ApprovedWithHours {
		s.events.Publish(events.Event{Name: quotation.EventUserUpdated, QuotationID: q.ID}, events.ToUser(q.UserID))
	}
	return q, nil
}

func (s *QuotationService) Start(ctx context.Context, id string, adminID uint) (quotation.Quotation, error) {
	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		return quotation.Apply(q, quotation.ActionStart, quotation.ActorAdmin, adminID, s.now())
	})
	if err != nil {
		return quotation.Quotation{}, err
	}
	s.announce(ctx, q, quotation.EventFor(quotation.ActionStart),
		"Work started", fmt.Sprintf("Our team started working on %q.", q.ProjectName),
		"", "")
	return q, nil
}

// Complete attaches one deliverable per original file, in file order.
func (s *QuotationService) Complete(ctx context.Context, id string, adminID uint, completed []upload.Candidate, invoice *upload.Candidate) (quotation.Quotation, error) {
	current, err := s.load(id)
	if err != nil {
		return quotation.Quotation{}, err
	}
	if _, err := quotation.Next(current.Status, quotation.ActionComplete, quotation.ActorAdmin); err != nil {
		return quotation.Quotation{}, err
	}
	if err := quotation.ValidateCompletion(current.Files, len(completed)); err != nil {
		return quotation.Quotation{}, err
	}
	policy := s.policies.For(upload.ContextCompleted)
	for _, c := range completed {
		if err := policy.Check(c.Name, c.Size); err != nil {
			return quotation.Quotation{}, err
		}
	}
	if invoice != nil {
		if err := s.policies.For(upload.ContextDocument).Check(invoice.Name, invoice.Size); err != nil {
			return quotation.Quotation{}, err
		}
	}

	var uploaded []string
	keys := make([]string, len(completed))
	for i, c := range completed {
		keys[i] = storage.ObjectKey(id, storage.RoleCompleted, i, c.Name)
		if err := s.put(ctx, keys[i], c); err != nil {
			s.removeObjects(uploaded)
			return quotation.Quotation{}, err
		}
		uploaded = append(uploaded, keys[i])
	}
	var invoiceKey string
	if invoice != nil {
		invoiceKey = storage.ObjectKey(id, storage.RoleDocument, 1, "invoice-"+invoice.Name)
		if err := s.put(ctx, invoiceKey, *invoice); err != nil {
			s.removeObjects(uploaded)
			return quotation.Quotation{}, err
		}
		uploaded = append(uploaded, invoiceKey)
	}

	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		if err := quotation.ValidateCompletion(q.Files, len(completed)); err != nil {
			return err
		}
		for i := range q.Files {
			q.Files[i].CompletedFile = keys[i]
			q.Files[i].CompletedName = completed[i].Name
			q.Files[i].Status = quotation.FileCompleted
		}
		if invoiceKey != "" {
			q.InvoiceDocument = invoiceKey
		}
		return quotation.Apply(q, quotation.ActionComplete, quotation.ActorAdmin, adminID, s.now())
	})
	if err != nil {
		s.removeObjects(uploaded)
		return quotation.Quotation{}, err
	}

	s.announce(ctx, q, quotation.EventFor(quotation.ActionComplete),
		"Your CAD files are ready", fmt.Sprintf("%q is complete and ready to download.", q.ProjectName),
		"", "")
	return q, nil
}

// ReportIssues lets the owner flag delivered files, moving completed -> reported.
func (s *QuotationService) ReportIssues(ctx context.Context, id string, userID uint, in quotation.ReportInput) (quotation.Quotation, error) {
	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		if !q.Owner(userID) {
			return ErrForbidden
		}
		if _, err := quotation.Next(q.Status, quotation.ActionReport, quotation.ActorUser); err != nil {
			return err
		}
		if err := quotation.ApplyReport(q, in); err != nil {
			return err
		}
		return quotation.Apply(q, quotation.ActionReport, quotation.ActorUser, userID, s.now())
	})
	if err != nil {
		return quotation.Quotation{}, err
	}

	issued := len(q.ReportedFiles())
	s.announce(ctx, q, quotation.EventFor(quotation.ActionReport),
		"", "",
		"Issues reported", fmt.Sprintf("The customer reported %d issued file(s) on %q.", issued, q.ProjectName))
	s.alerts.Alert(ctx, fmt.Sprintf("Issues reported on %s: %d file(s)", q.ProjectName, issued))
	return q, nil
}

// UploadIssued replaces every reported file, moving reported -> completed.
// fileIDs[i] names the file that files[i] replaces.
func (s *QuotationService) UploadIssued(ctx context.Context, id string, adminID uint, fileIDs []string, files []upload.Candidate) (quotation.Quotation, error) {
	if len(fileIDs) != len(files) {
		return quotation.Quotation{}, fmt.Errorf("%w: %d ids for %d files", quotation.ErrReuploadIncomplete, len(fileIDs), len(files))
	}
	current, err := s.load(id)
	if err != nil {
		return quotation.Quotation{}, err
	}
	if _, err := quotation.Next(current.Status, quotation.ActionReupload, quotation.ActorAdmin); err != nil {
		return quotation.Quotation{}, err
	}
	if err := quotation.ValidateReupload(current, fileIDs); err != nil {
		return quotation.Quotation{}, err
	}
	policy := s.policies.For(upload.ContextIssued)
	for _, c := range files {
		if err := policy.Check(c.Name, c.Size); err != nil {
			return quotation.Quotation{}, err
		}
	}

	var uploaded []string
	keys := make(map[string]string, len(files))
	names := make(map[string]string, len(files))
	for i, c := range files {
		pos := current.Files[current.FileByID(fileIDs[i])].Position
		key := storage.ObjectKey(id, storage.RoleIssued, pos, fmt.Sprintf("%d-%s", len(current.History), c.Name))
		if err := s.put(ctx, key, c); err != nil {
			s.removeObjects(uploaded)
			return quotation.Quotation{}, err
		}
		uploaded = append(uploaded, key)
		keys[fileIDs[i]] = key
		names[fileIDs[i]] = c.Name
	}

	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		if err := quotation.ValidateReupload(*q, fileIDs); err != nil {
			return err
		}
		for i := range q.Files {
			f := &q.Files[i]
			if key, ok := keys[f.ID]; ok {
				f.CompletedFile = key
				f.CompletedName = names[f.ID]
				f.Status = quotation.FileCompleted
			}
			f.UserReportedStatus = ""
			f.ReportNote = ""
		}
		q.MainNote = ""
		return quotation.Apply(q, quotation.ActionReupload, quotation.ActorAdmin, adminID, s.now())
	})
	if err != nil {
		s.removeObjects(uploaded)
		return quotation.Quotation{}, err
	}

	s.announce(ctx, q, quotation.EventFor(quotation.ActionReupload),
		"Corrected files uploaded", fmt.Sprintf("We replaced %d file(s) on %q.", len(files), q.ProjectName),
		"", "")
	return q, nil
}

// SubmitPO uploads a purchase order for admin review in place of credit hours.
func (s *QuotationService) SubmitPO(ctx context.Context, id string, userID uint, doc upload.Candidate) (quotation.Quotation, error) {
	current, err := s.load(id)
	if err != nil {
		return quotation.Quotation{}, err
	}
	if !current.Owner(userID) {
		return quotation.Quotation{}, ErrForbidden
	}
	if !quotation.CanSubmitPO(current.Status, current.POStatus) {
		return quotation.Quotation{}, fmt.Errorf("%w: a purchase order cannot be submitted now", quotation.ErrInvalidPOState)
	}
	if err := s.policies.For(upload.ContextDocument).Check(doc.Name, doc.Size); err != nil {
		return quotation.Quotation{}, err
	}
	key := storage.ObjectKey(id, storage.RoleDocument, 2, fmt.Sprintf("po-%d-%s", s.now().Unix(), doc.Name))
	if err := s.put(ctx, key, doc); err != nil {
		return quotation.Quotation{}, err
	}

	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		if !quotation.CanSubmitPO(q.Status, q.POStatus) {
			return fmt.Errorf("%w: a purchase order cannot be submitted now", quotation.ErrInvalidPOState)
		}
		requested := quotation.PORequested
		q.POStatus = &requested
		q.PODocument = key
		return nil
	})
	if err != nil {
		s.removeObjects([]string{key})
		return quotation.Quotation{}, err
	}

	s.announce(ctx, q, quotation.EventPOUpdated,
		"", "",
		"Purchase order submitted", fmt.Sprintf("A purchase order for %q awaits review.", q.ProjectName))
	return q, nil
}

// DecidePO resolves a pending purchase order. Approval does not approve the
// quote itself; the owner retries approval afterwards.
func (s *QuotationService) DecidePO(ctx context.Context, id string, decision quotation.POStatus) (quotation.Quotation, error) {
	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		next, err := quotation.NextPO(q.POStatus, decision)
		if err != nil {
			return err
		}
		q.POStatus = &next
		return nil
	})
	if err != nil {
		return quotation.Quotation{}, err
	}
	s.announce(ctx, q, quotation.EventPOUpdated,
		"Purchase order "+string(decision), fmt.Sprintf("Your purchase order for %q was %s.", q.ProjectName, decision),
		"", "")
	return q, nil
}

func (s *QuotationService) UpdateNotes(ctx context.Context, id string, notes string) (quotation.Quotation, error) {
	q, err := s.mutate(id, func(_ *repository.Repos, q *quotation.Quotation) error {
		q.Notes = strings.TrimSpace(notes)
		return nil
	})
	if err != nil {
		return quotation.Quotation{}, err
	}
	s.announce(ctx, q, quotation.EventUpdated, "", "", "", "")
	return q, nil
}

// DownloadURL resolves a short-lived link for a quotation file. For
// documents fileID is one of quotation, invoice or po.
func (s *QuotationService) DownloadURL(ctx context.Context, id, fileID string, kind quotation.DownloadKind, userID uint, isAdmin bool) (quotation.DownloadResponse, error) {
	q, err := s.Get(id, userID, isAdmin)
	if err != nil {
		return quotation.DownloadResponse{}, err
	}

	var key, name string
	switch kind {
	case quotation.DownloadDocument:
		switch fileID {
		case "quotation":
			key, name = q.QuotationDocument, "quotation"+extOf(q.QuotationDocument)
		case "invoice":
			key, name = q.InvoiceDocument, "invoice"+extOf(q.InvoiceDocument)
		case "po":
			key, name = q.PODocument, "purchase-order"+extOf(q.PODocument)
		}
	default:
		i := q.FileByID(fileID)
		if i < 0 {
			return quotation.DownloadResponse{}, ErrFileNotFound
		}
		f := q.Files[i]
		if kind == quotation.DownloadCompleted {
			key, name = f.CompletedFile, f.CompletedName
		} else {
			if f.OriginalLink != "" {
				return quotation.DownloadResponse{URL: f.OriginalLink, Name: f.OriginalName}, nil
			}
			key, name = f.OriginalFile, f.OriginalName
		}
	}
	if key == "" {
		return quotation.DownloadResponse{}, ErrFileNotFound
	}
	url, err := s.store.PresignGet(ctx, key, name, downloadURLTTL)
	if err != nil {
		return quotation.DownloadResponse{}, err
	}
	return quotation.DownloadResponse{URL: url, Name: name}, nil
}

func extOf(key string) string {
	if ext := upload.Extension(key); ext != "" {
		return "." + ext
	}
	return ""
}

func (s *QuotationService) load(id string) (quotation.Quotation, error) {
	q, err := s.Repos.Quotation.GetByID(id)
	return q, mapQuotationErr(err)
}

// mutate loads the quotation under a row lock, applies fn and saves, all in
// one transaction. Nothing is persisted if fn fails.
func (s *QuotationService) mutate(id string, fn func(r *repository.Repos, q *quotation.Quotation) error) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		q, err := r.Quotation.GetForUpdate(id)
		if err != nil {
			return mapQuotationErr(err)
		}
		if err := fn(r, &q); err != nil {
			return err
		}
		if err := r.Quotation.Save(&q); err != nil {
			return err
		}
		out = q
		return nil
	})
	return out, err
}

func (s *QuotationService) put(ctx context.Context, key string, c upload.Candidate) error {
	if c.Open == nil {
		return fmt.Errorf("%w: %s", ErrMissingUpload, c.Name)
	}
	rc, err := c.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Name, err)
	}
	defer rc.Close()
	if err := s.store.Put(ctx, key, io.LimitReader(rc, c.Size), c.Size, storage.ContentType(c.Name)); err != nil {
		return fmt.Errorf("store %s: %w", c.Name, err)
	}
	return nil
}

func (s *QuotationService) removeObjects(keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Remove(context.Background(), key); err != nil {
			slog.Warn("orphaned object", "key", key, "error", err)
		}
	}
}

// announce publishes the change and notifies the owner and/or admins.
// Failures here never undo the committed change.
func (s *QuotationService) announce(ctx context.Context, q quotation.Quotation, event, ownerTitle, ownerMsg, adminTitle, adminMsg string) {
	s.events.Publish(events.Event{Name: event, QuotationID: q.ID}, events.ToOwnerAndAdmins(q.UserID))
	if ownerTitle != "" {
		if err := s.notify.Notify(ctx, q.UserID, q.ID, ownerTitle, ownerMsg); err != nil {
			slog.Error("notify owner failed", "quotationID", q.ID, "error", err)
		}
	}
	if adminTitle != "" {
		if err := s.notify.NotifyAdmins(ctx, q.ID, adminTitle, adminMsg); err != nil {
			slog.Error("notify admins failed", "quotationID", q.ID, "error", err)
		}
	}
}
