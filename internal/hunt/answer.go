package hunt

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// NormalizeAnswer maps the accented Latin vowels that appear in clue answers
// to their plain equivalents and drops everything that is not alphanumeric
// or whitespace. Case and spacing are preserved.
func NormalizeAnswer(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'é', 'ê', 'è':
			r = 'e'
		case 'É', 'Ê', 'È':
			r = 'E'
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchAnswer reports whether the submitted answer fuzzily matches the
// canonical one after normalization. Any match at all passes, whatever its
// score; "parc tete dor" is accepted for "Le Parc de la Tête d'Or". Only a
// submission whose characters cannot be found in order in the canonical
// answer is rejected.
func MatchAnswer(given, canonical string) bool {
	normalized := NormalizeAnswer(given)
	if strings.TrimSpace(normalized) == "" {
		return false
	}
	matches := fuzzy.Find(normalized, []string{NormalizeAnswer(canonical)})
	return len(matches) > 0
}
