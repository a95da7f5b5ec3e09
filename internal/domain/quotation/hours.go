package quotation

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrHoursInvalid     = errors.New("invalid hours")
	ErrHoursNotEditable = errors.New("hours can no longer be edited")
	ErrUnknownFile      = errors.New("unknown file")
)

// FileHours is the admin's estimate for one file.
type FileHours struct {
	FileID       string  `json:"fileId"`
	RequiredHour float64 `json:"requiredHour"`
}

// hundredths keeps hour arithmetic exact to two decimals.
func hundredths(h float64) int64 {
	return int64(math.Round(h * 100))
}

func fromHundredths(v int64) float64 {
	return float64(v) / 100
}

// TotalHours is the only way a quotation total is derived.
func TotalHours(files []File) float64 {
	var sum int64
	for _, f := range files {
		sum += hundredths(f.RequiredHour)
	}
	return fromHundredths(sum)
}

// EntriesTotal sums an estimate the same way TotalHours sums stored files.
func EntriesTotal(entries []FileHours) float64 {
	var sum int64
	for _, e := range entries {
		sum += hundredths(e.RequiredHour)
	}
	return fromHundredths(sum)
}

// TotalMatches compares a submitted total with the estimate at hundredth
// precision.
func TotalMatches(entries []FileHours, total float64) bool {
	return hundredths(total) == hundredths(EntriesTotal(entries))
}

// ValidateHours checks an estimate against the quotation's files. Every file
// must be covered exactly once with a finite, non-negative value. requirePositive
// additionally demands a non-zero total, as raising a quote does.
func ValidateHours(files []File, entries []FileHours, requirePositive bool) error {
	if len(entries) != len(files) {
		return fmt.Errorf("%w: expected %d file estimates, got %d", ErrHoursInvalid, len(files), len(entries))
	}
	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.ID] = false
	}
	var total int64
	for _, e := range entries {
		seen, ok := known[e.FileID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFile, e.FileID)
		}
		if seen {
			return fmt.Errorf("%w: duplicate estimate for %s", ErrHoursInvalid, e.FileID)
		}
		known[e.FileID] = true
		if math.IsNaN(e.RequiredHour) || math.IsInf(e.RequiredHour, 0) {
			return fmt.Errorf("%w: hours for %s must be a number", ErrHoursInvalid, e.FileID)
		}
		if e.RequiredHour < 0 {
			return fmt.Errorf("%w: hours for %s must not be negative", ErrHoursInvalid, e.FileID)
		}
		total += hundredths(e.RequiredHour)
	}
	if requirePositive && total <= 0 {
		return fmt.Errorf("%w: total hours must be greater than zero", ErrHoursInvalid)
	}
	return nil
}

// ApplyHours writes per-file estimates and recomputes the total from them.
func ApplyHours(q *Quotation, entries []FileHours, requirePositive bool) error {
	if !HoursEditable(q.Status) {
		return fmt.Errorf("%w: quotation is %s", ErrHoursNotEditable, q.Status)
	}
	if err := ValidateHours(q.Files, entries, requirePositive); err != nil {
		return err
	}
	byID := make(map[string]float64, len(entries))
	for _, e := range entries {
		byID[e.FileID] = fromHundredths(hundredths(e.RequiredHour))
	}
	for i := range q.Files {
		q.Files[i].RequiredHour = byID[q.Files[i].ID]
	}
	q.RequiredHour = TotalHours(q.Files)
	return nil
}
