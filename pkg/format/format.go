// Package format holds the display helpers shared by the API and the CLI.
package format

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeps     = regexp.MustCompile(`[\s_-]+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// FormatPrice renders a USD amount with grouping and two decimals, e.g. $1,110.00.
func FormatPrice(price decimal.Decimal) string {
	f, _ := price.Round(2).Float64()
	if f < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -f)
	}
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// Slugify lower-cases text, drops everything but word characters, spaces and
// hyphens, and joins the remaining words with single hyphens.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeps.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsSlug reports whether s is already URL-safe.
func IsSlug(s string) bool {
	return validSlug.MatchString(s)
}

// Truncate shortens text to maxLength characters and appends an ellipsis.
func Truncate(text string, maxLength int) string {
	r := []rune(text)
	if len(r) <= maxLength {
		return text
	}
	return strings.TrimSpace(string(r[:maxLength])) + "..."
}
