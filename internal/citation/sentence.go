package citation

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Sentence fragments at or below this length are noise, not sentences.
const minSentenceLength = 10

// Cap on edit-distance evaluations per sentence when sliding the search
// text across a longer sentence.
const maxAlignments = 64

// sentenceSpan is one sentence of the original document with its offsets.
type sentenceSpan struct {
	start, end int
}

// sentenceMatch splits the document into sentences and scores each against
// the search text by normalized Levenshtein distance, sliding the search
// window across longer sentences so a fragment buried mid-sentence still
// aligns. The best sentence wins if its edit ratio is within threshold;
// confidence is 1 minus that ratio.
func sentenceMatch(search normalized, documentText string, threshold float64) *Match {
	searchRunes := []rune(search.text)
	if len(searchRunes) == 0 {
		return nil
	}

	bestRatio := -1.0
	var bestSpan sentenceSpan
	for _, s := range splitSentences(documentText) {
		sentNorm := normalize(documentText[s.start:s.end])
		ratio := editRatio(searchRunes, []rune(sentNorm.text))
		if bestRatio < 0 || ratio < bestRatio {
			bestRatio = ratio
			bestSpan = s
		}
	}

	if bestRatio < 0 || bestRatio > threshold {
		return nil
	}
	return &Match{
		Text:       documentText[bestSpan.start:bestSpan.end],
		StartIndex: bestSpan.start,
		EndIndex:   bestSpan.end,
		Confidence: 1 - bestRatio,
		Strategy:   StrategySentence,
	}
}

// editRatio computes the best normalized edit distance between the search
// text and the sentence. When the sentence is longer, search-length windows
// are sampled across it and the minimum ratio is taken.
func editRatio(search, sentence []rune) float64 {
	if len(sentence) <= len(search) {
		return distanceRatio(search, sentence)
	}

	span := len(sentence) - len(search)
	step := span/(maxAlignments-1) + 1
	best := -1.0
	for off := 0; off <= span; off += step {
		window := sentence[off : off+len(search)]
		r := distanceRatio(search, window)
		if best < 0 || r < best {
			best = r
		}
	}
	// Sample the final alignment in case the stepping skipped it.
	if r := distanceRatio(search, sentence[span:]); best < 0 || r < best {
		best = r
	}
	return best
}

func distanceRatio(a, b []rune) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(string(a), string(b))
	return float64(dist) / float64(maxLen)
}

// splitSentences cuts the document on sentence-ending punctuation,
// discarding fragments too short to be meaningful sentences.
func splitSentences(text string) []sentenceSpan {
	var spans []sentenceSpan
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if s := makeSpan(text, start, i+1); s != nil {
			spans = append(spans, *s)
		}
		start = i + 1
	}
	if s := makeSpan(text, start, len(text)); s != nil {
		spans = append(spans, *s)
	}
	return spans
}

// makeSpan trims a candidate sentence range and drops it if too short.
func makeSpan(text string, start, end int) *sentenceSpan {
	for start < end && isWhitespace(text[start]) {
		start++
	}
	for end > start && isWhitespace(text[end-1]) {
		end--
	}
	if utf8.RuneCountInString(text[start:end]) <= minSentenceLength {
		return nil
	}
	return &sentenceSpan{start: start, end: end}
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
