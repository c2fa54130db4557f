package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "Prüfung"
// slugs the same as "Prufung".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a stable ID from human-readable text: lowercase, diacritics
// stripped, runs of non-alphanumerics collapsed to a single dash, leading and
// trailing dashes trimmed. Total for any input; the empty string slugs to "".
// Distinct inputs may normalize identically; that is accepted, not guarded.
func Slugify(input string) string {
	stripped, _, err := transform.String(stripMarks, input)
	if err != nil {
		stripped = input
	}
	stripped = strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	pendingDash := false
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// IDForQuestion derives the question's stable ID from its text.
func IDForQuestion(q Question) (string, error) {
	if q.Text == "" {
		return "", fmt.Errorf("%w: %+v", ErrInvalidQuestion, q)
	}
	return Slugify(q.Text), nil
}

// IDForAnswer returns the answer's stable ID. The extra Slugify pass is
// idempotent on already-generated IDs.
func IDForAnswer(a Answer) (string, error) {
	if a.InternalID == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, a.Text)
	}
	return Slugify(a.InternalID), nil
}
