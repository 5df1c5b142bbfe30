package subtitle

import (
	"testing"
	"time"
)

func TestWriteSRT(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 500 * time.Millisecond, Text: "hi"},
	}

	want := "1\n00:00:00,000 --> 00:00:00,500\nhi\n\n"
	if got := WriteSRT(segments); got != want {
		t.Errorf("WriteSRT = %q, want %q", got, want)
	}
}

func TestWriteSRTMultiple(t *testing.T) {
	segments := []Segment{
		{Start: time.Second, End: 4 * time.Second, Text: "Hello, world!"},
		{Start: 5 * time.Second, End: 8 * time.Second, Text: "  padded  "},
	}

	want := "1\n00:00:01,000 --> 00:00:04,000\nHello, world!\n\n" +
		"2\n00:00:05,000 --> 00:00:08,000\npadded\n\n"
	if got := WriteSRT(segments); got != want {
		t.Errorf("WriteSRT = %q, want %q", got, want)
	}
}

func TestParseSRT(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`

	segments := ParseSRT(content)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	if segments[0].Start != time.Second {
		t.Errorf("segment 0: expected start 1s, got %v", segments[0].Start)
	}
	if segments[0].End != 4*time.Second {
		t.Errorf("segment 0: expected end 4s, got %v", segments[0].End)
	}
	if segments[0].Text != "Hello, world!" {
		t.Errorf("segment 0: expected 'Hello, world!', got %q", segments[0].Text)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if segments[1].Text != expectedText {
		t.Errorf("segment 1: expected %q, got %q", expectedText, segments[1].Text)
	}
}

func TestParseSRTCRLF(t *testing.T) {
	content := "1\r\n00:00:01,000 --> 00:00:02,000\r\nline one\r\nline two\r\n\r\n"

	segments := ParseSRT(content)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "line one\nline two" {
		t.Errorf("text = %q", segments[0].Text)
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	content := `1
not a time line
skipped text

2
00:00:02,000 --> 00:00:03,000
kept

orphan line
`

	segments := ParseSRT(content)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "kept" {
		t.Errorf("text = %q", segments[0].Text)
	}
}

func TestParseSRTAcceptsDotSeparator(t *testing.T) {
	content := "1\n00:00:01.500 --> 00:00:02.000\npermissive\n"

	segments := ParseSRT(content)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start != time.Second+500*time.Millisecond {
		t.Errorf("start = %v", segments[0].Start)
	}
}

func TestParseSRTSortsByStart(t *testing.T) {
	content := `1
00:00:10,000 --> 00:00:11,000
later

2
00:00:01,000 --> 00:00:02,000
earlier
`

	segments := ParseSRT(content)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "earlier" || segments[1].Text != "later" {
		t.Errorf("segments not sorted by start: %+v", segments)
	}
}

func TestSRTRoundTrip(t *testing.T) {
	original := []Segment{
		{Start: 0, End: 1500 * time.Millisecond, Text: "first"},
		{Start: 2 * time.Second, End: 26*time.Hour + 30*time.Minute, Text: "beyond a day"},
		{Start: 3 * time.Second, End: 3*time.Second + 42*time.Millisecond, Text: "multi\nline"},
	}

	parsed := ParseSRT(WriteSRT(original))
	if len(parsed) != len(original) {
		t.Fatalf("round trip changed count: %d -> %d", len(original), len(parsed))
	}
	for i := range original {
		if parsed[i] != original[i] {
			t.Errorf("segment %d: got %+v, want %+v", i, parsed[i], original[i])
		}
	}
}
