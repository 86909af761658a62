package certificates

import (
	"regexp"
	"strings"
)

// The four placeholder grammars, applied in this fixed order. The double-curly
// form is the primary grammar; the others are legacy fallbacks kept for old
// templates. Square and parenthesis forms are restricted to single
// identifier-shaped tokens so that ordinary prose like "(see appendix)" or CSS
// like "body {color: red}" is never treated as a placeholder. Substitution
// only happens on a successful dictionary lookup, so a key left unresolved by
// the double-curly pass cannot be consumed by the single-curly pass either.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{\s*([A-Za-z0-9 _-]+?)\s*\}\}`),
	regexp.MustCompile(`\{\s*([A-Za-z0-9 _-]+?)\s*\}`),
	regexp.MustCompile(`\[([A-Za-z0-9_-]{1,40})\]`),
	regexp.MustCompile(`\(([A-Za-z0-9_-]{1,40})\)`),
}

var (
	keySeparators   = regexp.MustCompile(`[ _-]+`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeKey lowercases a placeholder key and collapses runs of spaces,
// underscores and hyphens into a single underscore. Idempotent.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return keySeparators.ReplaceAllString(key, "_")
}

// ResolvePlaceholders substitutes every placeholder whose key resolves in the
// dictionary and leaves the rest byte-for-byte unchanged. Unresolved keys are
// returned so the caller can log them; generation still proceeds, since a
// partial certificate beats a blocked one.
func ResolvePlaceholders(html string, dict Dictionary) (string, []string) {
	var unresolved []string
	seen := map[string]bool{}

	for _, pattern := range placeholderPatterns {
		html = pattern.ReplaceAllStringFunc(html, func(match string) string {
			key := pattern.FindStringSubmatch(match)[1]
			value, ok := lookupKey(dict, key)
			if !ok {
				normalized := NormalizeKey(key)
				if !seen[normalized] {
					seen[normalized] = true
					unresolved = append(unresolved, normalized)
				}
				return match
			}
			return value
		})
	}

	return html, unresolved
}

// lookupKey tries the normalized key first, then retries with every
// non-alphanumeric character stripped, which catches spellings like
// "full name" against a dictionary entry "fullname".
func lookupKey(dict Dictionary, key string) (string, bool) {
	normalized := NormalizeKey(key)
	if value, ok := dict.Lookup(normalized); ok {
		return value, true
	}
	stripped := nonAlphanumeric.ReplaceAllString(normalized, "")
	if stripped != normalized && stripped != "" {
		return dict.Lookup(stripped)
	}
	return "", false
}
