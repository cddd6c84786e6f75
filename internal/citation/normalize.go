package citation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalized holds canonicalized text together with per-byte maps back into
// the source string, so matches found in normalized space can be reported as
// offsets into the original document.
type normalized struct {
	text string
	// starts[i] is the source offset where normalized byte i begins;
	// ends[i] is the source offset just past the source run it covers.
	// A collapsed whitespace run maps to the full run's extent.
	starts []int
	ends   []int
}

// normalize collapses whitespace runs to single spaces, folds curly quotes
// and unicode dashes to their ASCII forms, and drops spacing around pipe
// characters so reformatted markdown tables compare equal. The same
// function must be applied to both sides of every comparison.
func normalize(s string) normalized {
	var b strings.Builder
	b.Grow(len(s))
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	spaceStart := -1
	spaceEnd := 0
	lastByte := byte(0)

	emit := func(repl string, srcStart, srcEnd int) {
		for i := 0; i < len(repl); i++ {
			starts = append(starts, srcStart)
			ends = append(ends, srcEnd)
		}
		b.WriteString(repl)
		lastByte = repl[len(repl)-1]
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			if spaceStart < 0 {
				spaceStart = i
			}
			spaceEnd = i + size
			i += size
			continue
		}

		repl := normalizeRune(r)
		if spaceStart >= 0 {
			// Drop leading whitespace and whitespace touching a pipe.
			if b.Len() > 0 && lastByte != '|' && repl != "|" {
				emit(" ", spaceStart, spaceEnd)
			}
			spaceStart = -1
		}
		emit(repl, i, i+size)
		i += size
	}

	return normalized{text: b.String(), starts: starts, ends: ends}
}

// normalizeRune maps typographic quote and dash variants to ASCII.
func normalizeRune(r rune) string {
	switch r {
	case '‘', '’', '‚', '‹', '›':
		return "'"
	case '“', '”', '„', '«', '»':
		return `"`
	case '‐', '‑', '‒', '–', '—', '―', '−':
		return "-"
	case '…':
		return "..."
	}
	return string(r)
}

// sourceRange maps a normalized byte range back to original text offsets.
func (n normalized) sourceRange(start, end int) (int, int) {
	if len(n.starts) == 0 || start >= end {
		return 0, 0
	}
	if start < 0 {
		start = 0
	}
	if end > len(n.starts) {
		end = len(n.starts)
	}
	return n.starts[start], n.ends[end-1]
}
