// Package template implements placeholder parsing and substitution for
// document template bodies.
package template

import "strings"

// Placeholder delimiters.
const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// SegmentKind distinguishes literal text from placeholders.
type SegmentKind int

const (
	// SegmentLiteral is verbatim template text.
	SegmentLiteral SegmentKind = iota

	// SegmentPlaceholder is a {{name}} token to be substituted.
	SegmentPlaceholder
)

// Segment is one parsed piece of a template body. For placeholders,
// Value holds the enclosed name; for literals, the raw text.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Parse splits a template body into literal and placeholder segments.
// Parsing is total: an open marker without a matching close, and any
// other malformed syntax, degrades to literal text. Nesting is not
// supported; the first close marker after an open marker ends the
// placeholder.
func Parse(body string) []Segment {
	if body == "" {
		return nil
	}

	segments := make([]Segment, 0, 4)
	rest := body
	for {
		open := strings.Index(rest, openMarker)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+len(openMarker):], closeMarker)
		if end < 0 {
			// Unmatched open marker: everything left is literal.
			break
		}

		if open > 0 {
			segments = append(segments, Segment{Kind: SegmentLiteral, Value: rest[:open]})
		}
		name := rest[open+len(openMarker) : open+len(openMarker)+end]
		segments = append(segments, Segment{Kind: SegmentPlaceholder, Value: name})
		rest = rest[open+len(openMarker)+end+len(closeMarker):]
	}

	if rest != "" {
		segments = append(segments, Segment{Kind: SegmentLiteral, Value: rest})
	}
	return segments
}

// Placeholders returns the distinct placeholder names in parse order.
func Placeholders(segments []Segment) []string {
	seen := make(map[string]struct{}, len(segments))
	names := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Kind != SegmentPlaceholder {
			continue
		}
		if _, dup := seen[seg.Value]; dup {
			continue
		}
		seen[seg.Value] = struct{}{}
		names = append(names, seg.Value)
	}
	return names
}
