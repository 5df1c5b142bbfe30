package subtitle

import (
	"fmt"
	"strings"
)

// ParseVTT parses WebVTT content. The header line, NOTE and STYLE blocks,
// and optional cue identifiers are skipped; cue settings after the end
// time are ignored. The result is sorted by start time.
func ParseVTT(content string) []Segment {
	lines := strings.Split(normalizeNewlines(content), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "WEBVTT") {
		i++
	}

	var segments []Segment
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		if strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") {
			i = skipUntilBlank(lines, i+1)
			continue
		}

		// A line without the arrow token is an optional cue identifier;
		// the time range follows on the next line.
		if !strings.Contains(line, "-->") {
			i++
			if i >= len(lines) {
				break
			}
			line = strings.TrimSpace(lines[i])
		}

		start, end, ok := parseTimeRange(line)
		i++
		if !ok {
			continue
		}

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, lines[i])
			i++
		}

		segments = append(segments, Segment{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(strings.Join(textLines, "\n")),
		})
	}

	sortByStart(segments)
	return segments
}

// WriteVTT renders segments as WebVTT text.
func WriteVTT(segments []Segment) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatVTTTime(seg.Start),
			FormatVTTTime(seg.End)))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func skipUntilBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		i++
	}
	return i
}
