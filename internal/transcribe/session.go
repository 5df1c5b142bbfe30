package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"subgen/internal/logging"
	"subgen/internal/subtitle"
)

// Session wraps one loaded recognition model. Creating a session verifies
// the model file; transcriptions bind a fresh processor (one whisper-cli
// invocation) to the session's model.
type Session struct {
	binPath   string
	modelPath string
	logger    *logging.Logger
}

// NewSession creates a session for the model at modelPath.
func NewSession(binPath, modelPath string, logger *logging.Logger) (*Session, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", modelPath, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, fmt.Errorf("loading model %s: not a model file", modelPath)
	}

	return &Session{
		binPath:   binPath,
		modelPath: modelPath,
		logger:    logger,
	}, nil
}

// ModelPath returns the model file this session wraps.
func (s *Session) ModelPath() string {
	return s.modelPath
}

// Segment lines printed by whisper-cli look like
// [00:00:00.000 --> 00:00:02.580]   text.
var segmentLineRegex = regexp.MustCompile(
	`^\[([0-9:.,]+) --> ([0-9:.,]+)\]\s*(.*)$`,
)

// Transcribe starts a recognition run over the waveform and returns a
// stream of segments in chronological order as the engine produces them.
// Canceling ctx kills the engine process and ends the stream promptly.
// Segments with empty text are discarded.
func (s *Session) Transcribe(ctx context.Context, wavPath, language string) (*Stream, error) {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "auto"
	}

	runCtx, cancel := context.WithCancel(ctx)

	args := []string{
		"-m", s.modelPath,
		"-f", wavPath,
		"-l", lang,
	}
	cmd := exec.CommandContext(runCtx, s.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening engine output: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting recognition engine: %w", err)
	}

	s.logger.Debugw("recognition started",
		"model", s.modelPath,
		"wav", wavPath,
		"language", lang,
	)

	stream := newStream(cancel)
	go func() {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			seg, ok := parseSegmentLine(scanner.Text())
			if !ok {
				continue
			}
			if !stream.emit(runCtx, seg) {
				break
			}
		}

		waitErr := cmd.Wait()
		switch {
		case ctx.Err() != nil:
			stream.finish(ctx.Err())
		case runCtx.Err() != nil:
			// Closed by the consumer; end-of-useful-output, not an error.
			stream.finish(nil)
		case waitErr != nil:
			stream.finish(fmt.Errorf("recognition engine failed: %w (%s)",
				waitErr, tail(stderr.String(), 400)))
		default:
			stream.finish(nil)
		}
	}()

	return stream, nil
}

// parseSegmentLine extracts one timed segment from an engine output line.
func parseSegmentLine(line string) (RawSegment, bool) {
	matches := segmentLineRegex.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return RawSegment{}, false
	}

	start, err := subtitle.ParseTimestamp(matches[1])
	if err != nil {
		return RawSegment{}, false
	}
	end, err := subtitle.ParseTimestamp(matches[2])
	if err != nil {
		return RawSegment{}, false
	}

	text := strings.TrimSpace(matches[3])
	if text == "" {
		return RawSegment{}, false
	}

	return RawSegment{Start: start, End: end, Text: text}, true
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// SessionCache holds at most one session, keyed by model path. It is
// owned by a single workflow owner and needs no locking.
type SessionCache struct {
	binPath string
	logger  *logging.Logger
	session *Session
}

// NewSessionCache creates an empty cache using the given engine binary.
func NewSessionCache(binPath string, logger *logging.Logger) *SessionCache {
	return &SessionCache{
		binPath: binPath,
		logger:  logger,
	}
}

// Get returns the cached session, rebuilding it when the requested model
// path differs from the cached one (case-insensitive compare).
func (c *SessionCache) Get(modelPath string) (*Session, error) {
	if c.session != nil && strings.EqualFold(c.session.ModelPath(), modelPath) {
		return c.session, nil
	}

	if c.session != nil {
		c.logger.Debugw("model path changed, rebuilding session",
			"old", c.session.ModelPath(),
			"new", modelPath,
		)
	}
	c.session = nil

	session, err := NewSession(c.binPath, modelPath, c.logger)
	if err != nil {
		return nil, err
	}
	c.session = session
	return session, nil
}

// Invalidate drops the cached session.
func (c *SessionCache) Invalidate() {
	c.session = nil
}
