package subtitle

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamps(t *testing.T) {
	tests := []struct {
		d       time.Duration
		wantSRT string
		wantVTT string
	}{
		{0, "00:00:00,000", "00:00:00.000"},
		{500 * time.Millisecond, "00:00:00,500", "00:00:00.500"},
		{1*time.Second + 7*time.Millisecond, "00:00:01,007", "00:00:01.007"},
		{90 * time.Minute, "01:30:00,000", "01:30:00.000"},
		// hours are unclamped beyond 24
		{26*time.Hour + 3*time.Second, "26:00:03,000", "26:00:03.000"},
		{100 * time.Hour, "100:00:00,000", "100:00:00.000"},
		{-time.Second, "00:00:00,000", "00:00:00.000"},
	}

	for _, tt := range tests {
		if got := FormatSRTTime(tt.d); got != tt.wantSRT {
			t.Errorf("FormatSRTTime(%v) = %q, want %q", tt.d, got, tt.wantSRT)
		}
		if got := FormatVTTTime(tt.d); got != tt.wantVTT {
			t.Errorf("FormatVTTTime(%v) = %q, want %q", tt.d, got, tt.wantVTT)
		}
	}
}

func TestFormatsDifferOnlyInSeparator(t *testing.T) {
	for _, d := range []time.Duration{
		0,
		123 * time.Millisecond,
		59*time.Minute + 59*time.Second + 999*time.Millisecond,
		48 * time.Hour,
	} {
		srt := FormatSRTTime(d)
		vtt := FormatVTTTime(d)
		if strings.ReplaceAll(srt, ",", ".") != vtt {
			t.Errorf("formats diverge for %v: %q vs %q", d, srt, vtt)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:00:01,000", time.Second, false},
		{"00:00:01.000", time.Second, false},
		{"01:02:03,456", time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond, false},
		// short fractions are right-padded
		{"00:00:01.5", time.Second + 500*time.Millisecond, false},
		{"00:00:01,42", time.Second + 420*time.Millisecond, false},
		// long fractions are truncated to milliseconds
		{"00:00:01.123456", time.Second + 123*time.Millisecond, false},
		// hours are optional
		{"01:30.000", time.Minute + 30*time.Second, false},
		// hours beyond two digits
		{"100:00:00.000", 100 * time.Hour, false},
		{" 00:00:02.000 ", 2 * time.Second, false},
		{"garbage", 0, true},
		{"00:00:01", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, ok := parseTimeRange("00:00:01.000 --> 00:00:02.500 align:start position:10%")
	if !ok {
		t.Fatal("expected time range to parse")
	}
	if start != time.Second {
		t.Errorf("start = %v, want 1s", start)
	}
	if end != 2*time.Second+500*time.Millisecond {
		t.Errorf("end = %v, want 2.5s", end)
	}

	if _, _, ok := parseTimeRange("not a time line"); ok {
		t.Error("expected parse failure for non-time line")
	}
	if _, _, ok := parseTimeRange("00:00:01.000 --> "); ok {
		t.Error("expected parse failure for missing end time")
	}
}
