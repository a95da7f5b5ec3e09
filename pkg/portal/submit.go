package portal

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
)

// Submitter turns a validated form and upload session into one creation
// request.
type Submitter struct {
	client *Client
}

func NewSubmitter(c *Client) *Submitter {
	return &Submitter{client: c}
}

// Validate runs the form rules and the session checks without touching the
// network.
func Validate(form quotation.FormInput, sess *upload.Session) error {
	errs := form.Validate()
	errs.Merge(sess.Validate())
	if errs.Empty() {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// Submit creates the quotation. Invalid input returns *ValidationError
// before any request is made. On success the session is reset; on failure it
// is left as it was so the call can be retried.
func (s *Submitter) Submit(ctx context.Context, form quotation.FormInput, sess *upload.Session, progress Progress) (quotation.Quotation, error) {
	if err := Validate(form, sess); err != nil {
		return quotation.Quotation{}, err
	}

	parts := []formPart{
		fieldPart("projectName", form.ProjectName),
		fieldPart("description", form.Description),
		fieldPart("technicalInfo", quotation.JoinTechnicalInfo(form.TechnicalInfo)),
		fieldPart("deliverables", form.Deliverables),
		fieldPart("software", form.Software),
		fieldPart("softwareVersion", form.SoftwareVersion),
	}
	if sess.Mode == upload.ModeLinks {
		raw, err := json.Marshal(sess.Links())
		if err != nil {
			return quotation.Quotation{}, err
		}
		parts = append(parts, fieldPart("originalLinks", string(raw)))
	} else {
		for _, c := range sess.Models.Items() {
			parts = append(parts, filePart("originalFiles", c))
		}
	}
	for _, c := range sess.Info.Items() {
		parts = append(parts, filePart("infoFiles", c))
	}

	var out quotation.Quotation
	if err := s.client.sendMultipart(ctx, http.MethodPost, "/quotations", parts, progress, &out); err != nil {
		return quotation.Quotation{}, err
	}
	sess.Reset()
	return out, nil
}
