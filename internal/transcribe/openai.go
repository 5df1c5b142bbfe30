package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"subgen/internal/logging"
)

// OpenAIEngine transcribes through the OpenAI Audio API. It implements
// the same Engine contract as the local session; the whole response
// arrives at once and is replayed as a stream.
type OpenAIEngine struct {
	client openai.Client
	model  string
	logger *logging.Logger
}

// whisperSegment is one segment from a verbose_json response.
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// whisperVerboseResponse is the verbose_json response structure.
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Duration float64          `json:"duration"`
}

// NewOpenAIEngine creates a remote engine with the given API key.
func NewOpenAIEngine(apiKey, model string, logger *logging.Logger) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAIEngine{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logger,
	}, nil
}

// Transcribe uploads the waveform and streams the returned segments.
func (e *OpenAIEngine) Transcribe(ctx context.Context, wavPath, language string) (*Stream, error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("opening waveform: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(e.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}

	lang := strings.TrimSpace(language)
	if lang != "" && !strings.EqualFold(lang, "auto") {
		params.Language = openai.String(lang)
	}

	resp, err := e.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("remote transcription failed: %w", err)
	}

	segments := parseVerboseJSON(resp.RawJSON(), resp.Text)

	e.logger.Debugw("remote transcription complete",
		"segments", len(segments),
	)

	runCtx, cancel := context.WithCancel(ctx)
	stream := newStream(cancel)
	go func() {
		for _, seg := range segments {
			if !stream.emit(runCtx, seg) {
				break
			}
		}
		if err := ctx.Err(); err != nil {
			stream.finish(err)
			return
		}
		stream.finish(nil)
	}()

	return stream, nil
}

// parseVerboseJSON extracts timed segments from a verbose_json payload,
// falling back to one whole-response segment when none are present.
func parseVerboseJSON(rawJSON, fallbackText string) []RawSegment {
	var verbose whisperVerboseResponse
	if rawJSON != "" {
		_ = json.Unmarshal([]byte(rawJSON), &verbose)
	}

	if len(verbose.Segments) == 0 {
		text := strings.TrimSpace(verbose.Text)
		if text == "" {
			text = strings.TrimSpace(fallbackText)
		}
		if text == "" {
			return nil
		}
		return []RawSegment{{
			Start: 0,
			End:   time.Duration(verbose.Duration * float64(time.Second)),
			Text:  text,
		}}
	}

	segments := make([]RawSegment, 0, len(verbose.Segments))
	for _, seg := range verbose.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, RawSegment{
			Start: time.Duration(seg.Start * float64(time.Second)),
			End:   time.Duration(seg.End * float64(time.Second)),
			Text:  text,
		})
	}
	return segments
}
