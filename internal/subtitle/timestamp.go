package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FormatSRTTime renders a duration as HH:MM:SS,mmm. Hours are zero-padded
// to at least two digits and not capped at 24.
func FormatSRTTime(d time.Duration) string {
	return formatTimestamp(d, ',')
}

// FormatVTTTime renders a duration as HH:MM:SS.mmm.
func FormatVTTTime(d time.Duration) string {
	return formatTimestamp(d, '.')
}

func formatTimestamp(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	total := d.Milliseconds()
	millis := total % 1000
	seconds := (total / 1000) % 60
	minutes := (total / 60000) % 60
	hours := total / 3600000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

// Reads are permissive: either fractional separator is accepted regardless
// of format, hours are optional, and short fractions are tolerated.
var timestampRegex = regexp.MustCompile(
	`^(?:(\d+):)?(\d{1,2}):(\d{1,2})[.,](\d+)$`,
)

// ParseTimestamp parses one timestamp field. Fractions with fewer than
// three digits are right-padded with zeros; longer ones are truncated.
func ParseTimestamp(field string) (time.Duration, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(field))
	if matches == nil {
		return 0, fmt.Errorf("invalid timestamp: %q", field)
	}

	hours := 0
	if matches[1] != "" {
		h, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp hours: %q", field)
		}
		hours = h
	}
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	frac := matches[4]
	if len(frac) < 3 {
		frac += strings.Repeat("0", 3-len(frac))
	}
	millis, _ := strconv.Atoi(frac[:3])

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// parseTimeRange parses a cue time line of the form "start --> end".
// The end field may carry trailing cue settings, which are ignored.
func parseTimeRange(line string) (start, end time.Duration, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	startField := strings.TrimSpace(parts[0])
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, false
	}

	var err error
	if start, err = ParseTimestamp(startField); err != nil {
		return 0, 0, false
	}
	if end, err = ParseTimestamp(endFields[0]); err != nil {
		return 0, 0, false
	}
	return start, end, true
}
