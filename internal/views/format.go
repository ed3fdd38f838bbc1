package views

import (
	"strconv"

	"github.com/goliatone/go-blog/internal/posts"
)

// FormatDate renders a post date as "Jan 15, 2024". Unparseable dates are
// returned unchanged.
func FormatDate(date string) string {
	t, ok := posts.ParseDate(date)
	if !ok {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// ArchiveDay splits a post date into the short month and day shown on the
// archive timeline.
func ArchiveDay(date string) (month string, day string) {
	t, ok := posts.ParseDate(date)
	if !ok {
		return "", ""
	}
	return t.Format("Jan"), strconv.Itoa(t.Day())
}

// Plural returns singular when n is one and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
