package search

import "regexp"

// Span is a byte-offset range locating one match within a line. End is
// exclusive. Offsets are bytes, not runes, matching the regexp engine.
type Span struct {
	Start int
	End   int
}

// MatchedLine is one reported match. Line references the decoded notebook's
// text and is valid for the scan of that one file. LineNumber is the 0-based
// position within the line's container. Spans is empty for inverted matches
// and for non-text data, which is only ever matched as a whole unit.
type MatchedLine struct {
	Line       string
	LineNumber int
	Spans      []Span
	IsText     bool
}

// MatchLines evaluates the pattern against each line independently and
// returns one MatchedLine per kept line, in line order. With invert false a
// line is kept when the pattern matches and every non-overlapping match is
// recorded as a span; with invert true the complementary lines are kept and
// carry no spans, since there is nothing to highlight.
func MatchLines(lines []string, re *regexp.Regexp, invert bool) []MatchedLine {
	var matched []MatchedLine
	for i, line := range lines {
		if re.MatchString(line) == invert {
			continue
		}
		var spans []Span
		if !invert {
			for _, loc := range re.FindAllStringIndex(line, -1) {
				spans = append(spans, Span{Start: loc[0], End: loc[1]})
			}
		}
		matched = append(matched, MatchedLine{
			Line:       line,
			LineNumber: i,
			Spans:      spans,
			IsText:     true,
		})
	}
	return matched
}

// MatchOpaque applies the same keep/invert logic to a single opaque datum.
// The result never carries spans and its line number is not meaningful;
// non-text data is reported as matched or not as a unit, never highlighted.
func MatchOpaque(datum string, re *regexp.Regexp, invert bool) (MatchedLine, bool) {
	if re.MatchString(datum) == invert {
		return MatchedLine{}, false
	}
	return MatchedLine{Line: datum, IsText: false}, true
}
