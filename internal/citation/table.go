package citation

import "strings"

// Hard caps on table-region scanning so pathological pipe distributions
// cannot stall a request.
const (
	maxTableRegions   = 100
	maxLinesPerRegion = 50
)

// tableRegion is a contiguous run of pipe-delimited lines in the document.
type tableRegion struct {
	start, end int
}

// tableMatch scores contiguous table regions of the document by the
// fraction of the search text's cell tokens they contain, case-insensitive.
// The best region at or above minScore wins. Confidence is capped below 1.0
// since cell containment is weaker evidence than an exact match.
func tableMatch(searchText, documentText string, minScore float64) *Match {
	cells := parseCells(searchText)
	if len(cells) == 0 {
		return nil
	}

	best := -1.0
	var bestRegion tableRegion
	for _, region := range findTableRegions(documentText) {
		regionText := strings.ToLower(documentText[region.start:region.end])
		found := 0
		for _, cell := range cells {
			if strings.Contains(regionText, strings.ToLower(cell)) {
				found++
			}
		}
		score := float64(found) / float64(len(cells))
		if score > best {
			best = score
			bestRegion = region
		}
	}

	if best < minScore {
		return nil
	}
	confidence := best
	if confidence > 0.95 {
		confidence = 0.95
	}
	return &Match{
		Text:       documentText[bestRegion.start:bestRegion.end],
		StartIndex: bestRegion.start,
		EndIndex:   bestRegion.end,
		Confidence: confidence,
		Strategy:   StrategyTable,
	}
}

// parseCells splits a search string into pipe-delimited cell tokens,
// dropping empty cells and markdown separator rows.
func parseCells(searchText string) []string {
	var cells []string
	for _, part := range strings.Split(searchText, "|") {
		cell := strings.TrimSpace(part)
		if cell == "" || isSeparatorCell(cell) {
			continue
		}
		cells = append(cells, cell)
	}
	return cells
}

// isSeparatorCell reports whether a cell is a markdown alignment row token
// like "---" or ":---:".
func isSeparatorCell(cell string) bool {
	dashes := 0
	for _, r := range cell {
		switch r {
		case '-':
			dashes++
		case ':', ' ':
		default:
			return false
		}
	}
	return dashes > 0
}

// findTableRegions collects runs of lines starting with a pipe. The scan
// index advances past every examined line, so termination does not depend
// on the caps; they only bound the work per call.
func findTableRegions(text string) []tableRegion {
	var regions []tableRegion

	pos := 0
	for pos < len(text) && len(regions) < maxTableRegions {
		lineEnd := lineEndFrom(text, pos)
		if !strings.HasPrefix(strings.TrimSpace(text[pos:lineEnd]), "|") {
			pos = lineEnd + 1
			continue
		}

		start := pos
		end := lineEnd
		lines := 0
		for pos < len(text) && lines < maxLinesPerRegion {
			le := lineEndFrom(text, pos)
			if !strings.HasPrefix(strings.TrimSpace(text[pos:le]), "|") {
				break
			}
			end = le
			lines++
			pos = le + 1
		}
		regions = append(regions, tableRegion{start: start, end: end})
	}

	return regions
}

// lineEndFrom returns the offset of the newline terminating the line that
// starts at pos, or len(text) for the final line.
func lineEndFrom(text string, pos int) int {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}
