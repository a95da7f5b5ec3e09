package portal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// recordedForm is what the fake server saw in one multipart request.
type recordedForm struct {
	Method string
	Path   string
	Values map[string][]string
	Files  map[string][]string
	Bodies map[string]string
}

type fakeAPI struct {
	calls  *atomic.Int32
	mu     sync.Mutex
	forms  []recordedForm
	status int
	reply  any
}

func newFakeAPI(status int, reply any) *fakeAPI {
	return &fakeAPI{calls: atomic.NewInt32(0), status: status, reply: reply}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Inc()
	rec := recordedForm{Method: r.Method, Path: r.URL.Path, Files: map[string][]string{}, Bodies: map[string]string{}}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		rec.Values = r.MultipartForm.Value
		for field, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				rec.Files[field] = append(rec.Files[field], fh.Filename)
				rc, _ := fh.Open()
				body, _ := io.ReadAll(rc)
				rc.Close()
				rec.Bodies[fh.Filename] = string(body)
			}
		}
	}
	f.mu.Lock()
	f.forms = append(f.forms, rec)
	f.mu.Unlock()
	writeJSON(w, f.status, f.reply)
}

func (f *fakeAPI) last() recordedForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[len(f.forms)-1]
}

func validForm() quotation.FormInput {
	return quotation.FormInput{
		ProjectName:     "Impeller",
		Description:     "Reverse engineer the impeller",
		TechnicalInfo:   []quotation.TechnicalFlag{quotation.FlagScansToNURBS, quotation.FlagDesignIntent},
		Software:        "SolidWorks",
		SoftwareVersion: "2024",
	}
}

// --------------------- Submit ---------------------
func TestSubmit_InvalidInputMakesNoCalls(t *testing.T) {
	api := newFakeAPI(http.StatusCreated, quotation.Quotation{ID: "q1"})
	c := newTestClient(t, api)
	sess := upload.NewSession(upload.DefaultPolicies())

	_, err := NewSubmitter(c).Submit(context.Background(), quotation.FormInput{}, sess, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "projectName")
	assert.Contains(t, verr.Fields, "files")
	assert.True(t, IsValidation(err))

	sess.AddFiles(upload.FromBytes("scan.exe", []byte("MZ")))
	_, err = NewSubmitter(c).Submit(context.Background(), validForm(), sess, nil)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields["files"], "scan.exe")

	assert.Zero(t, api.calls.Load())
}

func TestSubmit_FilesModeSendsEveryPart(t *testing.T) {
	api := newFakeAPI(http.StatusCreated, quotation.Quotation{ID: "q1", Status: quotation.StatusRequested})
	c := newTestClient(t, api)
	sess := upload.NewSession(upload.DefaultPolicies())
	sess.AddFiles(upload.FromBytes("front.stl", []byte(strings.Repeat("s", 4000))), upload.FromBytes("back.obj", []byte("v 1 2 3")))
	sess.AddInfoFiles(upload.FromBytes("brief.pdf", []byte("%PDF")))

	var progress []int
	q, err := NewSubmitter(c).Submit(context.Background(), validForm(), sess, func(p int) { progress = append(progress, p) })
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, int32(1), api.calls.Load())

	form := api.last()
	assert.Equal(t, http.MethodPost, form.Method)
	assert.Equal(t, "/quotations", form.Path)
	assert.Equal(t, []string{"Impeller"}, form.Values["projectName"])
	assert.Equal(t, []string{"scansToNURBS,designIntent"}, form.Values["technicalInfo"])
	assert.Equal(t, []string{"2024"}, form.Values["softwareVersion"])
	assert.Equal(t, []string{"front.stl", "back.obj"}, form.Files["originalFiles"])
	assert.Equal(t, []string{"brief.pdf"}, form.Files["infoFiles"])
	assert.Empty(t, form.Values["originalLinks"])
	assert.Equal(t, "v 1 2 3", form.Bodies["back.obj"])

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.Greater(t, progress[i], progress[i-1])
	}

	assert.Equal(t, 0, sess.Models.Len(), "session resets after success")
	assert.Equal(t, 0, sess.Info.Len())
}

func TestSubmit_LinksMode(t *testing.T) {
	api := newFakeAPI(http.StatusCreated, quotation.Quotation{ID: "q2"})
	c := newTestClient(t, api)
	sess := upload.NewSession(upload.DefaultPolicies())
	sess.Mode = upload.ModeLinks
	require.NoError(t, sess.AddLink("https://drive.example.com/a"))
	require.NoError(t, sess.AddLink("https://drive.example.com/b"))
	// Files picked before switching modes are not sent.
	sess.AddFiles(upload.FromBytes("ignored.stl", []byte("x")))

	_, err := NewSubmitter(c).Submit(context.Background(), validForm(), sess, nil)
	require.NoError(t, err)

	form := api.last()
	require.Len(t, form.Values["originalLinks"], 1)
	var links []string
	require.NoError(t, json.Unmarshal([]byte(form.Values["originalLinks"][0]), &links))
	assert.Equal(t, []string{"https://drive.example.com/a", "https://drive.example.com/b"}, links)
	assert.Empty(t, form.Files["originalFiles"])
}

func TestSubmit_FailureKeepsSession(t *testing.T) {
	api := newFakeAPI(http.StatusInternalServerError, response.ErrorResponse{Error: "boom"})
	c := newTestClient(t, api)
	sess := upload.NewSession(upload.DefaultPolicies())
	sess.AddFiles(upload.FromBytes("scan.stl", []byte("solid")))

	var progress []int
	_, err := NewSubmitter(c).Submit(context.Background(), validForm(), sess, func(p int) { progress = append(progress, p) })
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, retryMessage, apiErr.Message)

	assert.Equal(t, 1, sess.Models.Len())
	assert.NotContains(t, progress, 100)
}

// --------------------- Guarded uploads ---------------------
func deliveredQuotation() quotation.Quotation {
	return quotation.Quotation{
		ID:     "q1",
		Status: quotation.StatusReported,
		Files: []quotation.File{
			{ID: "f1", OriginalName: "a.stl", Status: quotation.FileCompleted},
			{ID: "f2", OriginalName: "b.stl", Status: quotation.FileCompleted, UserReportedStatus: quotation.ReportIssued},
		},
	}
}

func TestComplete_CountMismatchMakesNoCalls(t *testing.T) {
	api := newFakeAPI(http.StatusOK, quotation.Quotation{})
	c := newTestClient(t, api)

	_, err := c.Complete(context.Background(), deliveredQuotation(), []upload.Candidate{upload.FromBytes("a.step", []byte("x"))}, nil, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "completedFiles")
	assert.Zero(t, api.calls.Load())
}

func TestUploadIssued(t *testing.T) {
	api := newFakeAPI(http.StatusOK, quotation.Quotation{ID: "q1", Status: quotation.StatusCompleted})
	c := newTestClient(t, api)
	q := deliveredQuotation()

	_, err := c.UploadIssued(context.Background(), q, map[string]upload.Candidate{}, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Zero(t, api.calls.Load())

	_, err = c.UploadIssued(context.Background(), q, map[string]upload.Candidate{"f1": upload.FromBytes("a.step", []byte("x"))}, nil)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "b.stl needs a replacement", verr.Fields["issuedFiles"])
	assert.Zero(t, api.calls.Load())

	out, err := c.UploadIssued(context.Background(), q, map[string]upload.Candidate{"f2": upload.FromBytes("b-fixed.step", []byte("ISO"))}, nil)
	require.NoError(t, err)
	assert.Equal(t, quotation.StatusCompleted, out.Status)

	form := api.last()
	assert.Equal(t, "/quotations/q1/upload-issued-files", form.Path)
	assert.Equal(t, []string{`["f2"]`}, form.Values["fileIds"])
	assert.Equal(t, []string{"b-fixed.step"}, form.Files["issuedFiles[0]"])
}

func TestRaiseQuoteDerivesTotal(t *testing.T) {
	api := newFakeAPI(http.StatusOK, quotation.Quotation{ID: "q1", Status: quotation.StatusQuoted})
	c := newTestClient(t, api)

	_, err := c.RaiseQuote(context.Background(), "q1", quotation.HoursInput{
		Files: []quotation.FileHours{{FileID: "f1", RequiredHour: 1.25}, {FileID: "f2", RequiredHour: 2}},
	}, nil)
	require.NoError(t, err)
	form := api.last()
	assert.Equal(t, http.MethodPut, form.Method)
	assert.Equal(t, []string{"3.25"}, form.Values["totalHours"])
}

func TestReportIssues_EmptyReportMakesNoCalls(t *testing.T) {
	api := newFakeAPI(http.StatusOK, quotation.Quotation{})
	c := newTestClient(t, api)
	q := deliveredQuotation()
	q.Status = quotation.StatusCompleted

	_, err := c.ReportIssues(context.Background(), q, quotation.ReportInput{})
	assert.True(t, IsValidation(err))
	assert.Zero(t, api.calls.Load())
}
