package quotation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoFiles() []File {
	return []File{{ID: "a"}, {ID: "b"}}
}

// --------------------- TotalHours ---------------------
func TestTotalHours_SumsWithoutDrift(t *testing.T) {
	files := []File{{RequiredHour: 0.1}, {RequiredHour: 0.2}, {RequiredHour: 0.3}}
	assert.Equal(t, 0.6, TotalHours(files))
	assert.Equal(t, 0.0, TotalHours(nil))
}

// --------------------- ValidateHours ---------------------
func TestTotalMatches_RoundsEachEntry(t *testing.T) {
	for _, h := range []float64{0.125, 0.333, 1.005} {
		entries := []FileHours{{FileID: "a", RequiredHour: h}, {FileID: "b", RequiredHour: h}, {FileID: "c", RequiredHour: h}}
		total := EntriesTotal(entries)
		assert.True(t, TotalMatches(entries, total), "hour %v", h)
		assert.Equal(t, TotalHours([]File{{RequiredHour: h}, {RequiredHour: h}, {RequiredHour: h}}), total)
	}
	assert.Equal(t, 0.99, EntriesTotal([]FileHours{{RequiredHour: 0.333}, {RequiredHour: 0.333}, {RequiredHour: 0.333}}))
	assert.False(t, TotalMatches([]FileHours{{RequiredHour: 0.25}}, 0.26))
}

func TestValidateHours_Valid(t *testing.T) {
	err := ValidateHours(twoFiles(), []FileHours{{"a", 1.5}, {"b", 0}}, true)
	assert.NoError(t, err)
}

func TestValidateHours_Rejects(t *testing.T) {
	cases := map[string]struct {
		entries []FileHours
		want    error
	}{
		"missing file":   {[]FileHours{{"a", 1}}, ErrHoursInvalid},
		"unknown file":   {[]FileHours{{"a", 1}, {"z", 1}}, ErrUnknownFile},
		"duplicate":      {[]FileHours{{"a", 1}, {"a", 1}}, ErrHoursInvalid},
		"negative":       {[]FileHours{{"a", -1}, {"b", 2}}, ErrHoursInvalid},
		"not a number":   {[]FileHours{{"a", math.NaN()}, {"b", 2}}, ErrHoursInvalid},
		"infinite":       {[]FileHours{{"a", math.Inf(1)}, {"b", 2}}, ErrHoursInvalid},
		"all zero raise": {[]FileHours{{"a", 0}, {"b", 0}}, ErrHoursInvalid},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateHours(twoFiles(), c.entries, true)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
		})
	}
}

func TestValidateHours_ZeroAllowedOnUpdate(t *testing.T) {
	assert.NoError(t, ValidateHours(twoFiles(), []FileHours{{"a", 0}, {"b", 0}}, false))
}

// --------------------- ApplyHours ---------------------
func TestApplyHours_TotalIsDerived(t *testing.T) {
	q := &Quotation{Status: StatusRequested, Files: twoFiles()}

	require.NoError(t, ApplyHours(q, []FileHours{{"b", 2.25}, {"a", 1.333}}, true))
	assert.Equal(t, 1.33, q.Files[0].RequiredHour)
	assert.Equal(t, 2.25, q.Files[1].RequiredHour)
	assert.Equal(t, 3.58, q.RequiredHour)
	assert.Equal(t, TotalHours(q.Files), q.RequiredHour)
}

func TestApplyHours_EditableWhileQuoted(t *testing.T) {
	q := &Quotation{Status: StatusQuoted, Files: twoFiles(), RequiredHour: 3}
	require.NoError(t, ApplyHours(q, []FileHours{{"a", 1}, {"b", 1}}, false))
	assert.Equal(t, 2.0, q.RequiredHour)
}

func TestApplyHours_LockedAfterApproval(t *testing.T) {
	q := &Quotation{Status: StatusApproved, Files: twoFiles(), RequiredHour: 3}
	err := ApplyHours(q, []FileHours{{"a", 1}, {"b", 1}}, false)
	assert.True(t, errors.Is(err, ErrHoursNotEditable))
	assert.Equal(t, 3.0, q.RequiredHour)
}

func TestApplyHours_InvalidLeavesFilesUntouched(t *testing.T) {
	files := []File{{ID: "a", RequiredHour: 4}, {ID: "b", RequiredHour: 1}}
	q := &Quotation{Status: StatusQuoted, Files: files, RequiredHour: 5}
	err := ApplyHours(q, []FileHours{{"a", -2}, {"b", 1}}, false)
	assert.Error(t, err)
	assert.Equal(t, 4.0, q.Files[0].RequiredHour)
	assert.Equal(t, 5.0, q.RequiredHour)
}
