package template

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// FormatDate applies strftime-style directives (%Y, %m, %d, ...) found in s
// against a single captured instant, leaving any non-directive text (and in
// particular {{key}} placeholders) untouched.
func FormatDate(now time.Time, s string) string {
	return strftime.Format(s, now)
}
