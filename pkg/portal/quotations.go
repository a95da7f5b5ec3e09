package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
)

func quotationPath(id string, suffix string) string {
	return "/quotations/" + url.PathEscape(id) + suffix
}

func (c *Client) ListQuotations(ctx context.Context, filter quotation.ListFilter) ([]quotation.Quotation, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.UserID != 0 {
		q.Set("userId", strconv.FormatUint(uint64(filter.UserID), 10))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	var out []quotation.Quotation
	err := c.doJSON(ctx, http.MethodGet, "/quotations", q, nil, &out)
	return out, err
}

func (c *Client) MyQuotations(ctx context.Context) ([]quotation.Quotation, error) {
	var out []quotation.Quotation
	err := c.doJSON(ctx, http.MethodGet, "/quotations/my-quotations", nil, nil, &out)
	return out, err
}

func (c *Client) GetQuotation(ctx context.Context, id string) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := c.doJSON(ctx, http.MethodGet, quotationPath(id, ""), nil, nil, &out)
	return out, err
}

func hoursParts(in quotation.HoursInput) ([]formPart, error) {
	files, err := json.Marshal(in.Files)
	if err != nil {
		return nil, err
	}
	parts := []formPart{fieldPart("files", string(files))}
	total := quotation.EntriesTotal(in.Files)
	if in.TotalHours != nil {
		total = *in.TotalHours
	}
	parts = append(parts, fieldPart("totalHours", strconv.FormatFloat(total, 'f', 2, 64)))
	return parts, nil
}

// RaiseQuote sends per-file hours; the total is derived from them.
func (c *Client) RaiseQuote(ctx context.Context, id string, in quotation.HoursInput, doc *upload.Candidate) (quotation.Quotation, error) {
	parts, err := hoursParts(in)
	if err != nil {
		return quotation.Quotation{}, err
	}
	if doc != nil {
		parts = append(parts, filePart("quotationFile", *doc))
	}
	var out quotation.Quotation
	err = c.sendMultipart(ctx, http.MethodPut, quotationPath(id, "/quote"), parts, nil, &out)
	return out, err
}

func (c *Client) UpdateHours(ctx context.Context, id string, in quotation.HoursInput) (quotation.Quotation, error) {
	parts, err := hoursParts(in)
	if err != nil {
		return quotation.Quotation{}, err
	}
	var out quotation.Quotation
	err = c.sendMultipart(ctx, http.MethodPut, quotationPath(id, "/update-hour"), parts, nil, &out)
	return out, err
}

func (c *Client) Decide(ctx context.Context, id string, in quotation.DecisionInput) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := c.doJSON(ctx, http.MethodPut, quotationPath(id, "/decision"), nil, in, &out)
	return out, err
}

func (c *Client) StartWork(ctx context.Context, id string) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := c.doJSON(ctx, http.MethodPut, quotationPath(id, "/ongoing"), nil, nil, &out)
	return out, err
}

// Complete uploads one deliverable per original file, in file order. It
// refuses locally when the counts differ.
func (c *Client) Complete(ctx context.Context, q quotation.Quotation, completed []upload.Candidate, invoice *upload.Candidate, progress Progress) (quotation.Quotation, error) {
	if ok, label := quotation.CompletionReadiness(len(q.Files), len(completed)); !ok {
		return quotation.Quotation{}, &ValidationError{Fields: map[string]string{"completedFiles": label}}
	}
	parts := make([]formPart, 0, len(completed)+1)
	for _, f := range completed {
		parts = append(parts, filePart("completedFiles", f))
	}
	if invoice != nil {
		parts = append(parts, filePart("completedQuotationFile", *invoice))
	}
	var out quotation.Quotation
	err := c.sendMultipart(ctx, http.MethodPut, quotationPath(q.ID, "/complete"), parts, progress, &out)
	return out, err
}

func (c *Client) ReportIssues(ctx context.Context, q quotation.Quotation, in quotation.ReportInput) (quotation.Quotation, error) {
	if err := quotation.ValidateReport(q.Files, in); err != nil {
		return quotation.Quotation{}, &ValidationError{Fields: map[string]string{"fileReports": err.Error()}}
	}
	var out quotation.Quotation
	err := c.doJSON(ctx, http.MethodPost, quotationPath(q.ID, "/report-issues"), nil, in, &out)
	return out, err
}

// UploadIssued replaces every reported file. replacements is keyed by file
// ID and must cover all reported files.
func (c *Client) UploadIssued(ctx context.Context, q quotation.Quotation, replacements map[string]upload.Candidate, progress Progress) (quotation.Quotation, error) {
	reported := q.ReportedFiles()
	if ok, label := quotation.ReuploadReadiness(len(reported), len(replacements)); !ok {
		return quotation.Quotation{}, &ValidationError{Fields: map[string]string{"issuedFiles": label}}
	}
	ids := make([]string, 0, len(reported))
	parts := make([]formPart, 0, len(reported)+1)
	for _, f := range reported {
		cand, ok := replacements[f.ID]
		if !ok {
			return quotation.Quotation{}, &ValidationError{Fields: map[string]string{"issuedFiles": fmt.Sprintf("%s needs a replacement", f.OriginalName)}}
		}
		parts = append(parts, filePart(fmt.Sprintf("issuedFiles[%d]", len(ids)), cand))
		ids = append(ids, f.ID)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return quotation.Quotation{}, err
	}
	parts = append([]formPart{fieldPart("fileIds", string(raw))}, parts...)
	var out quotation.Quotation
	err = c.sendMultipart(ctx, http.MethodPost, quotationPath(q.ID, "/upload-issued-files"), parts, progress, &out)
	return out, err
}

func (c *Client) SubmitPO(ctx context.Context, id string, doc upload.Candidate) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := c.sendMultipart(ctx, http.MethodPut, quotationPath(id, "/po-status"), []formPart{filePart("poFile", doc)}, nil, &out)
	return out, err
}

func (c *Client) DecidePO(ctx context.Context, id string, decision quotation.POStatus) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := c.doJSON(ctx, http.MethodPut, quotationPath(id, "/decisionpo"), nil, quotation.PODecisionInput{Status: decision}, &out)
	return out, err
}

func (c *Client) UpdateNotes(ctx context.Context, id, notes string) (quotation.Quotation, error) {
	var out quotation.Quotation
	err := c.doJSON(ctx, http.MethodPut, quotationPath(id, "/notes"), nil, quotation.NotesInput{Notes: notes}, &out)
	return out, err
}

func (c *Client) DownloadURL(ctx context.Context, id, fileID string, kind quotation.DownloadKind) (quotation.DownloadResponse, error) {
	var out quotation.DownloadResponse
	q := url.Values{"kind": {string(kind)}}
	err := c.doJSON(ctx, http.MethodGet, quotationPath(id, "/files/"+url.PathEscape(fileID)+"/download"), q, nil, &out)
	return out, err
}
