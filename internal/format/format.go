// Package format holds the text helpers shared by admin forms and views.
package format

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the storefront currency code.
const DefaultCurrency = "KSh"

// DefaultTruncateLength is used when TruncateText gets a non-positive length.
const DefaultTruncateLength = 100

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a display name into a URL-safe slug.
//
//	Slugify("Kids & Toys!!") == "kids-and-toys"
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "-and-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FormatCurrency renders amount as "<code> <amount to 2dp>". A nil amount
// renders as the empty string and an empty code means DefaultCurrency.
//
// Rounding works on the shortest decimal form of amount and goes half away
// from zero, so 1.005 renders as "1.01" and -2.675 as "-2.68". Formatting
// the binary value directly would give "1.00" for the first.
func FormatCurrency(amount *float64, code string) string {
	if amount == nil {
		return ""
	}
	if code == "" {
		code = DefaultCurrency
	}
	return code + " " + decimal.NewFromFloat(*amount).StringFixed(2)
}

// TruncateText cuts text to maxLength characters and appends "...".
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultTruncateLength
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

// CapitalizeWords lowercases text and upper-cases the first letter of each
// whitespace separated word. Original spacing is kept.
func CapitalizeWords(text string) string {
	runes := []rune(strings.ToLower(text))
	atWordStart := true
	for i, r := range runes {
		if unicode.IsSpace(r) {
			atWordStart = true
			continue
		}
		if atWordStart {
			runes[i] = unicode.ToUpper(r)
			atWordStart = false
		}
	}
	return string(runes)
}
