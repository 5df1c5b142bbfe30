package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatForPath maps a file extension to a subtitle format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %s", filepath.Ext(path))
	}
}

// Extension returns the file extension for a format.
func Extension(format Format) string {
	if format == FormatVTT {
		return ".vtt"
	}
	return ".srt"
}

// OutputPath derives a subtitle path from a media file path by replacing
// its extension.
func OutputPath(mediaPath string, format Format) string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return base + Extension(format)
}

// Open reads and parses a subtitle file based on its extension.
func Open(path string) ([]Segment, Format, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading subtitle file: %w", err)
	}

	switch format {
	case FormatVTT:
		return ParseVTT(string(data)), format, nil
	default:
		return ParseSRT(string(data)), format, nil
	}
}

// Save writes segments to path in the format implied by its extension,
// UTF-8 without a byte-order mark.
func Save(path string, segments []Segment) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var content string
	switch format {
	case FormatVTT:
		content = WriteVTT(segments)
	default:
		content = WriteSRT(segments)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing subtitle file: %w", err)
	}
	return nil
}
