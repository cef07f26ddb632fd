package wire

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// Preferred format: IMF-fixdate
	imfFixDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
	// Obsolete RFC 850 format
	rfc850DateFormat = time.RFC850
	// Obsolete asctime format
	asctimeDateFormat = time.ANSIC
)

// ParseDate parses an HTTP-date in any of the three accepted formats.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.7
func ParseDate(raw string) (time.Time, error) {
	layouts := []string{imfFixDateFormat, time.RFC1123, rfc850DateFormat, asctimeDateFormat}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Errorf("invalid time format: %q", raw)
}

// FormatDate renders t as an IMF-fixdate.
func FormatDate(t time.Time) string {
	return t.UTC().Format(imfFixDateFormat)
}
