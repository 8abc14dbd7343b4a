// Package validate turns untrusted upstream data into typed, bounded
// domain values. Every function accepts arbitrarily-typed input and
// reports failure through its return values; none of them panic.
package validate

import (
	"regexp"
	"strings"

	domain "github.com/xenking/storefront/internal/domain/product"
)

// TitleFallback is the title substituted for non-string title input.
const TitleFallback = "Unknown Product"

// htmlEscaper maps every character that can break out of an HTML text or
// attribute context to its entity equivalent. The replacer works in a
// single pass, so emitted entities are never re-escaped.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// tagPattern matches tag-like substrings that are stripped before escaping.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeHTML escapes & < > " ' / ` = to their HTML entities.
// Non-string input yields the empty string.
func SanitizeHTML(input any) string {
	s, ok := input.(string)
	if !ok {
		return ""
	}
	return htmlEscaper.Replace(s)
}

// SanitizeProductTitle strips tag-like substrings, escapes the remainder,
// and hard-truncates to the title limit, appending "..." when truncated.
// Non-string input yields TitleFallback.
func SanitizeProductTitle(input any) string {
	s, ok := input.(string)
	if !ok {
		return TitleFallback
	}
	return truncate(sanitizeText(s), domain.MaxTitleLen)
}

// SanitizeProductDescription behaves like SanitizeProductTitle with the
// description limit; non-string input yields the empty string.
func SanitizeProductDescription(input any) string {
	s, ok := input.(string)
	if !ok {
		return ""
	}
	return truncate(sanitizeText(s), domain.MaxDescriptionLen)
}

func sanitizeText(s string) string {
	return htmlEscaper.Replace(tagPattern.ReplaceAllString(s, ""))
}

// truncate limits s to max runes, appending "..." when anything was cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
