package tools

import (
	"fmt"
	"os"
	"os/exec"
)

// External tool discovery: explicit override first, then environment
// variable, then PATH lookup over the known binary names.

// ResolveFFmpeg locates the ffmpeg binary.
func ResolveFFmpeg(override string) (string, error) {
	return resolve(override, "SUBGEN_FFMPEG_PATH", "ffmpeg")
}

// ResolveFFprobe returns an explicit ffprobe override from the config or
// environment. Empty means the prober's default discovery applies.
func ResolveFFprobe(override string) string {
	if override != "" {
		return override
	}
	return os.Getenv("SUBGEN_FFPROBE_PATH")
}

// ResolveWhisper locates the whisper.cpp CLI binary.
func ResolveWhisper(override string) (string, error) {
	return resolve(override, "SUBGEN_WHISPER_PATH", "whisper-cli", "whisper-cpp")
}

func resolve(override, envVar string, names ...string) (string, error) {
	if override != "" {
		return override, nil
	}
	if fromEnv := os.Getenv(envVar); fromEnv != "" {
		return fromEnv, nil
	}
	for _, name := range names {
		if found, err := exec.LookPath(name); err == nil {
			return found, nil
		}
	}
	return "", fmt.Errorf("%s not found: install it or set %s", names[0], envVar)
}
