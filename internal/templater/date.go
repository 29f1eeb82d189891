package templater

import (
	"strings"
	"time"
	"unicode"
)

const submissionDateLayout = "2 Jan 2006"

// SubmissionDate formats t as an unpadded day, short month name and year, e.g. "5 Mar 2025".
func SubmissionDate(t time.Time) string {
	return t.Format(submissionDateLayout)
}

// Filename returns the download name for a booking on eventDate.
func Filename(prefix, eventDate string) string {
	return prefix + strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, eventDate) + ".pdf"
}
