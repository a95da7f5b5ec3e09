package quotation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCompletionMismatch = errors.New("completed files do not match original files")
	ErrEmptyReport        = errors.New("report must flag a file or include a note")
	ErrInvalidReport      = errors.New("invalid file report")
	ErrReuploadIncomplete = errors.New("every reported file needs a replacement")
)

// ValidateCompletion requires exactly one completed file per original file.
func ValidateCompletion(files []File, completed int) error {
	if completed != len(files) {
		return fmt.Errorf("%w: %d original, %d completed", ErrCompletionMismatch, len(files), completed)
	}
	return nil
}

// FileReport is the user's verdict on one delivered file.
type FileReport struct {
	FileID string       `json:"fileId"`
	Status ReportStatus `json:"status"`
	Note   string       `json:"note,omitempty"`
}

type ReportInput struct {
	FileReports []FileReport `json:"fileReports"`
	MainNote    string       `json:"mainNote"`
}

func ValidateReport(files []File, in ReportInput) error {
	issued := false
	for _, r := range in.FileReports {
		if r.Status != ReportOK && r.Status != ReportIssued {
			return fmt.Errorf("%w: status %q for file %s", ErrInvalidReport, r.Status, r.FileID)
		}
		found := false
		for _, f := range files {
			if f.ID == r.FileID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownFile, r.FileID)
		}
		if r.Status == ReportIssued {
			issued = true
		}
	}
	if !issued && strings.TrimSpace(in.MainNote) == "" {
		return ErrEmptyReport
	}
	return nil
}

// ApplyReport records the user's verdicts on the files.
func ApplyReport(q *Quotation, in ReportInput) error {
	if err := ValidateReport(q.Files, in); err != nil {
		return err
	}
	for _, r := range in.FileReports {
		i := q.FileByID(r.FileID)
		q.Files[i].UserReportedStatus = r.Status
		q.Files[i].ReportNote = strings.TrimSpace(r.Note)
	}
	q.MainNote = strings.TrimSpace(in.MainNote)
	return nil
}

// ValidateReupload requires a replacement for every issued file and nothing
// else.
func ValidateReupload(q Quotation, fileIDs []string) error {
	reported := q.ReportedFiles()
	if len(fileIDs) != len(reported) {
		return fmt.Errorf("%w: %d reported, %d provided", ErrReuploadIncomplete, len(reported), len(fileIDs))
	}
	want := make(map[string]bool, len(reported))
	for _, f := range reported {
		want[f.ID] = true
	}
	for _, id := range fileIDs {
		if !want[id] {
			return fmt.Errorf("%w: %s was not reported", ErrReuploadIncomplete, id)
		}
		delete(want, id)
	}
	return nil
}

// ReuploadReadiness drives the re-upload control: disabled with a prompt
// until a replacement is selected for each reported file.
func ReuploadReadiness(reported, selected int) (bool, string) {
	missing := reported - selected
	switch {
	case reported == 0:
		return false, "Nothing To Reupload"
	case missing == 1:
		return false, "Select 1 More File"
	case missing > 1:
		return false, fmt.Sprintf("Select %d More Files", missing)
	case missing < 0:
		return false, fmt.Sprintf("Remove %d File(s)", -missing)
	}
	return true, "Reupload"
}

// CompletionReadiness mirrors ReuploadReadiness for the completion upload.
func CompletionReadiness(original, selected int) (bool, string) {
	ok, label := ReuploadReadiness(original, selected)
	if ok {
		return true, "Complete"
	}
	return ok, label
}
