package quotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCompletion(t *testing.T) {
	assert.NoError(t, ValidateCompletion(twoFiles(), 2))
	assert.True(t, errors.Is(ValidateCompletion(twoFiles(), 1), ErrCompletionMismatch))
	assert.True(t, errors.Is(ValidateCompletion(twoFiles(), 3), ErrCompletionMismatch))
}

// --------------------- Reports ---------------------
func TestValidateReport(t *testing.T) {
	files := twoFiles()

	assert.NoError(t, ValidateReport(files, ReportInput{
		FileReports: []FileReport{{FileID: "a", Status: ReportIssued, Note: "holes"}},
	}))
	assert.NoError(t, ValidateReport(files, ReportInput{MainNote: "units are wrong"}))

	assert.True(t, errors.Is(ValidateReport(files, ReportInput{}), ErrEmptyReport))
	assert.True(t, errors.Is(ValidateReport(files, ReportInput{
		FileReports: []FileReport{{FileID: "a", Status: ReportOK}},
		MainNote:    "   ",
	}), ErrEmptyReport))
	assert.True(t, errors.Is(ValidateReport(files, ReportInput{
		FileReports: []FileReport{{FileID: "x", Status: ReportIssued}},
	}), ErrUnknownFile))
	assert.True(t, errors.Is(ValidateReport(files, ReportInput{
		FileReports: []FileReport{{FileID: "a", Status: "broken"}},
	}), ErrInvalidReport))
}

func TestApplyReport(t *testing.T) {
	q := &Quotation{Files: twoFiles()}
	err := ApplyReport(q, ReportInput{
		FileReports: []FileReport{
			{FileID: "a", Status: ReportOK},
			{FileID: "b", Status: ReportIssued, Note: " wrong scale "},
		},
		MainNote: " see b ",
	})
	require.NoError(t, err)
	assert.Equal(t, ReportOK, q.Files[0].UserReportedStatus)
	assert.Equal(t, ReportIssued, q.Files[1].UserReportedStatus)
	assert.Equal(t, "wrong scale", q.Files[1].ReportNote)
	assert.Equal(t, "see b", q.MainNote)

	reported := q.ReportedFiles()
	require.Len(t, reported, 1)
	assert.Equal(t, "b", reported[0].ID)
}

// --------------------- Reupload ---------------------
func reportedQuotation() Quotation {
	return Quotation{Files: []File{
		{ID: "a", UserReportedStatus: ReportIssued},
		{ID: "b", UserReportedStatus: ReportOK},
		{ID: "c", UserReportedStatus: ReportIssued},
	}}
}

func TestValidateReupload(t *testing.T) {
	q := reportedQuotation()

	assert.NoError(t, ValidateReupload(q, []string{"c", "a"}))
	assert.True(t, errors.Is(ValidateReupload(q, []string{"a"}), ErrReuploadIncomplete))
	assert.True(t, errors.Is(ValidateReupload(q, []string{"a", "b"}), ErrReuploadIncomplete))
	assert.True(t, errors.Is(ValidateReupload(q, []string{"a", "a"}), ErrReuploadIncomplete))
}

func TestReuploadReadiness(t *testing.T) {
	cases := []struct {
		reported, selected int
		ok                 bool
		label              string
	}{
		{0, 0, false, "Nothing To Reupload"},
		{3, 0, false, "Select 3 More Files"},
		{3, 2, false, "Select 1 More File"},
		{3, 3, true, "Reupload"},
		{2, 3, false, "Remove 1 File(s)"},
	}
	for _, c := range cases {
		ok, label := ReuploadReadiness(c.reported, c.selected)
		assert.Equal(t, c.ok, ok)
		assert.Equal(t, c.label, label)
	}
}

func TestCompletionReadiness(t *testing.T) {
	ok, label := CompletionReadiness(2, 2)
	assert.True(t, ok)
	assert.Equal(t, "Complete", label)

	ok, label = CompletionReadiness(2, 1)
	assert.False(t, ok)
	assert.Equal(t, "Select 1 More File", label)
}
