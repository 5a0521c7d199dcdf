// Package slug derives machine identifiers from human labels: URL slugs for
// surveys and machine values for question options. Both forms are lowercase
// ASCII with non-alphanumeric runs collapsed to a single separator and no
// leading or trailing separator; they differ only in the separator rune.
package slug

import "strings"

// Make derives a hyphen-separated URL slug from a title
func Make(s string) string {
	return normalize(s, '-')
}

// OptionValue derives an underscore-separated machine value from an option label
func OptionValue(s string) string {
	return normalize(s, '_')
}

func normalize(s string, sep rune) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		r = stripAccent(r)
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pending && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// stripAccent folds the Latin-1 accented letters to their ASCII base. Anything
// still outside ASCII after folding is treated as a separator by normalize.
func stripAccent(r rune) rune {
	if r < 0x80 {
		return r
	}
	switch {
	case r >= 'à' && r <= 'å':
		return 'a'
	case r >= 'è' && r <= 'ë':
		return 'e'
	case r >= 'ì' && r <= 'ï':
		return 'i'
	case r >= 'ò' && r <= 'ö':
		return 'o'
	case r >= 'ù' && r <= 'ü':
		return 'u'
	case r == 'ñ':
		return 'n'
	case r == 'ç':
		return 'c'
	case r == 'ý' || r == 'ÿ':
		return 'y'
	}
	// Anything else non-ASCII has no base form; treat as a separator
	return ' '
}
