package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fakeProbe(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProberDuration(t *testing.T) {
	input := filepath.Join(t.TempDir(), "clip.mkv")
	if err := os.WriteFile(input, []byte("fake media"), 0o644); err != nil {
		t.Fatal(err)
	}

	prober := NewProber(fakeProbe(t, `echo '{"format":{"duration":"12.340000"}}'`))

	got, err := prober.Duration(input)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if got != 12*time.Second+340*time.Millisecond {
		t.Errorf("Duration = %v, want 12.34s", got)
	}
}

func TestProberDurationBadOutput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "clip.mkv")
	if err := os.WriteFile(input, []byte("fake media"), 0o644); err != nil {
		t.Fatal(err)
	}

	prober := NewProber(fakeProbe(t, `echo "not json"`))
	if _, err := prober.Duration(input); err == nil {
		t.Error("expected error for unparseable probe output")
	}
}

func TestProberDurationProbeFailure(t *testing.T) {
	input := filepath.Join(t.TempDir(), "clip.mkv")
	if err := os.WriteFile(input, []byte("fake media"), 0o644); err != nil {
		t.Fatal(err)
	}

	prober := NewProber(fakeProbe(t, `echo "moov atom not found" >&2; exit 1`))
	if _, err := prober.Duration(input); err == nil {
		t.Error("expected error for failing probe")
	}
}

func TestProberDurationMissingFile(t *testing.T) {
	prober := NewProber("")
	if _, err := prober.Duration("/nonexistent/media.mp4"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.mp4", true},
		{"movie.MKV", true},
		{"/path/to/clip.webm", true},
		{"song.mp3", false},
		{"notes.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"recording.wav", true},
		{"movie.mp4", false},
		{"subtitles.srt", false},
	}

	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	if !IsMediaFile("a.mp4") || !IsMediaFile("a.mp3") {
		t.Error("media extensions not recognized")
	}
	if IsMediaFile("a.srt") {
		t.Error("subtitle file treated as media")
	}
}

