package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// isWordRune reports whether r can appear in an identifier or keyword.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier-like word around cursor and its byte
// boundaries within input. The word is empty when the cursor sits between
// two non-word characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// matchWord ranks candidates against word, best first. A word that starts
// with a digit is a number being typed and matches nothing.
func matchWord(word string, candidates []string) fuzzy.Matches {
	if word == "" || len(candidates) == 0 {
		return nil
	}

	if r, _ := utf8.DecodeRuneInString(word); unicode.IsDigit(r) {
		return nil
	}

	return fuzzy.Find(word, candidates)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, along with the word boundaries.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	return matchWord(word, candidates(m.session, m.mode)), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate is highlighted while tabbing.
func (s styles) renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := s.hint.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := s.renderCandidate(match, tabActive && i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && used+w > width-reserve && !(last && used+w <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// emphasized.
func (s styles) renderCandidate(match fuzzy.Match, selected bool) string {
	base, emph := s.suggestion, s.suggestion.Bold(true)
	if selected {
		base, emph = s.selected, s.selected.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(emph.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
