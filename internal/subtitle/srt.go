package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

var blankBlockRegex = regexp.MustCompile(`\n[ \t]*\n+`)

// ParseSRT parses SubRip content. Blocks that fail to parse a valid time
// range are skipped; the result is sorted by start time.
func ParseSRT(content string) []Segment {
	content = normalizeNewlines(content)

	var segments []Segment
	for _, block := range blankBlockRegex.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		// A block needs at least an index line and a time line.
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}

		start, end, ok := parseTimeRange(lines[1])
		if !ok {
			continue
		}

		text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
		segments = append(segments, Segment{Start: start, End: end, Text: text})
	}

	sortByStart(segments)
	return segments
}

// WriteSRT renders segments as SubRip text with 1-based indices.
func WriteSRT(segments []Segment) string {
	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatSRTTime(seg.Start),
			FormatSRTTime(seg.End)))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func normalizeNewlines(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	return strings.ReplaceAll(content, "\r\n", "\n")
}
