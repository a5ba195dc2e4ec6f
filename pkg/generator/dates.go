// pkg/generator/dates.go
package generator

import (
	"strings"
	"time"

	"github.com/careops/phi-cleanse/pkg/format"
	"github.com/careops/phi-cleanse/pkg/model"
)

// dateLayouts are the presentation formats recognized when parsing source
// dates, most common first. Replacements are rendered with the layout that
// matched, which preserves the ordering of year/month/day tokens.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"20060102",
	"01/02/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Date generation contract (documented and tested):
//   - Dates of birth shift the original by up to ±365 days, keeping the
//     subject's approximate age; unparseable originals fall back to a
//     synthetic birth date in the 18-90 year adult window.
//   - Appointment dates shift by up to ±30 days and roll weekends forward to
//     the next Monday; unparseable originals fall back to a date within 30
//     days after "now".
// Replacements are always valid calendar dates.

// maxRenderRetries bounds re-shifting when a layout cannot reproduce the
// original token lengths (unpadded day fields).
const maxRenderRetries = 20

func parseDate(value string) (time.Time, string, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

// dateOfBirth generates a synthetic date of birth.
func (r *Registry) dateOfBirth(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	parsed, layout, ok := parseDate(original)
	if !ok {
		if preserveFormat && !sig.IsNull {
			return "", ErrFormatUnrepresentable
		}
		return r.adultBirthDate().Format("2006-01-02"), nil
	}

	if !preserveFormat {
		return parsed.AddDate(0, 0, r.nonZeroDayShift(365)).Format("2006-01-02"), nil
	}

	return r.renderShifted(parsed, layout, sig, 365, nil)
}

// appointmentDate generates a synthetic appointment date.
func (r *Registry) appointmentDate(original string, sig model.FormatSignature, preserveFormat bool) (string, error) {
	parsed, layout, ok := parseDate(original)
	if !ok {
		if preserveFormat && !sig.IsNull {
			return "", ErrFormatUnrepresentable
		}
		now := time.Now()
		return r.faker.DateRange(now, now.AddDate(0, 0, 30)).Format("2006-01-02"), nil
	}

	if !preserveFormat {
		shifted := rollWeekend(parsed.AddDate(0, 0, r.nonZeroDayShift(30)))
		return shifted.Format("2006-01-02"), nil
	}

	return r.renderShifted(parsed, layout, sig, 30, rollWeekend)
}

// renderShifted shifts a date by up to ±window days and renders it with the
// original layout. Layouts with unpadded fields can change token lengths when
// the day crosses a digit boundary, so shifting is retried until the rendered
// value matches the signature.
func (r *Registry) renderShifted(parsed time.Time, layout string, sig model.FormatSignature, window int, adjust func(time.Time) time.Time) (string, error) {
	for attempt := 0; attempt < maxRenderRetries; attempt++ {
		shifted := parsed.AddDate(0, 0, r.nonZeroDayShift(window))
		if adjust != nil {
			shifted = adjust(shifted)
		}
		rendered := shifted.Format(layout)
		if format.Analyze(rendered).Equal(sig) {
			return rendered, nil
		}
	}
	return "", ErrFormatUnrepresentable
}

// nonZeroDayShift picks a day offset in [-window, window] excluding zero, so
// a shifted date can never equal the original.
func (r *Registry) nonZeroDayShift(window int) int {
	shift := r.faker.Number(-window, window-1)
	if shift >= 0 {
		shift++
	}
	return shift
}

// adultBirthDate returns a random date placing the subject between 18 and 90
// years old.
func (r *Registry) adultBirthDate() time.Time {
	now := time.Now()
	return r.faker.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-18, 0, 0))
}

// rollWeekend moves Saturday and Sunday dates forward to the next Monday.
func rollWeekend(t time.Time) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
