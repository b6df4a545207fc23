package template

import "strings"

// Render substitutes values into parsed segments in a single pass.
// Placeholder names are matched case-sensitively against the value map;
// a placeholder whose name has no mapping is emitted verbatim as
// {{name}}. Substituted values are inserted literally and never
// re-parsed, so a value containing {{...}}-shaped text cannot trigger
// further expansion.
func Render(segments []Segment, values map[string]string) string {
	var out strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentLiteral:
			out.WriteString(seg.Value)
		case SegmentPlaceholder:
			if value, ok := values[seg.Value]; ok {
				out.WriteString(value)
			} else {
				out.WriteString(openMarker)
				out.WriteString(seg.Value)
				out.WriteString(closeMarker)
			}
		}
	}
	return out.String()
}

// RenderBody parses and renders a raw template body.
func RenderBody(body string, values map[string]string) string {
	return Render(Parse(body), values)
}
