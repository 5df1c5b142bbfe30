package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"subgen/internal/logging"
)

// A 16 kHz mono s16le WAV smaller than this holds under 1/32 s of audio;
// treat it as a silent or audio-less source.
const minWavBytes = 1024

// silenceFilter trims leading and trailing silence at -50 dB, keeping
// 0.25 s of lead-in and 0.50 s of trailing room.
const silenceFilter = "silenceremove=start_periods=1:start_duration=0.25:start_threshold=-50dB," +
	"areverse," +
	"silenceremove=start_periods=1:start_duration=0.50:start_threshold=-50dB," +
	"areverse"

// commandResult captures one external process invocation.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// Transcoder converts arbitrary input media into a mono 16 kHz signed
// 16-bit PCM waveform using an external ffmpeg process.
type Transcoder struct {
	ffmpegPath string
	runner     commandRunner
	logger     *logging.Logger
}

// NewTranscoder creates a transcoder using the given ffmpeg binary.
func NewTranscoder(ffmpegPath string, logger *logging.Logger) *Transcoder {
	return &Transcoder{
		ffmpegPath: ffmpegPath,
		runner:     &execRunner{},
		logger:     logger,
	}
}

// newTranscoderForTests injects a fake process runner.
func newTranscoderForTests(ffmpegPath string, runner commandRunner, logger *logging.Logger) *Transcoder {
	return &Transcoder{
		ffmpegPath: ffmpegPath,
		runner:     runner,
		logger:     logger,
	}
}

// Extract produces a temporary WAV file from inputPath. When removeSilence
// is set, a silence-trim filter is applied; if ffmpeg then fails, the
// extraction is retried exactly once without the filter. The caller owns
// the returned file and must delete it after use.
func (t *Transcoder) Extract(ctx context.Context, inputPath string, removeSilence bool) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("cannot access input media: %w", err)
	}

	tmp, err := os.CreateTemp("", "subgen-*.wav")
	if err != nil {
		return "", fmt.Errorf("creating temp waveform: %w", err)
	}
	outPath := tmp.Name()
	tmp.Close()

	if err := t.convert(ctx, inputPath, outPath, removeSilence); err != nil {
		if removeSilence && ctx.Err() == nil {
			t.logger.Warnw("extraction with silence filter failed, retrying without it",
				"input", inputPath,
			)
			err = t.convert(ctx, inputPath, outPath, false)
		}
		if err != nil {
			os.Remove(outPath)
			return "", err
		}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("ffmpeg completed but output file is missing: %w", err)
	}
	if info.Size() < minWavBytes {
		os.Remove(outPath)
		return "", fmt.Errorf("no audio track or silent result (%d bytes)", info.Size())
	}

	return outPath, nil
}

func (t *Transcoder) convert(ctx context.Context, inputPath, outPath string, removeSilence bool) error {
	args := buildFFmpegArgs(inputPath, outPath, removeSilence)

	result, runErr := t.runner.Run(ctx, t.ffmpegPath, args...)

	// Keep full tool output for diagnostics regardless of exit status.
	t.logger.Debugw("ffmpeg finished",
		"args", args,
		"exit_code", result.ExitCode,
		"stdout", result.Stdout,
		"stderr", result.Stderr,
	)

	if runErr != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("ffmpeg conversion failed (exit %d): %w", result.ExitCode, runErr)
	}
	return nil
}

// buildFFmpegArgs builds the fixed conversion argument shape:
// -y -i <input> -vn -ac 1 -ar 16000 -c:a pcm_s16le [-af <filter>] <out>.
func buildFFmpegArgs(inputPath, outPath string, removeSilence bool) []string {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
	}
	if removeSilence {
		args = append(args, "-af", silenceFilter)
	}
	return append(args, outPath)
}
