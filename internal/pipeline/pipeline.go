package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"subgen/internal/config"
	"subgen/internal/logging"
	"subgen/internal/media"
	"subgen/internal/model"
	"subgen/internal/run"
	"subgen/internal/subtitle"
	"subgen/internal/tools"
	"subgen/internal/transcribe"
)

// Player is the playback collaborator. The pipeline only reacts to
// position updates and issues seek commands; it does not own playback.
type Player interface {
	Seek(position time.Duration) error
	Toggle() error
}

// ErrNoInput is the user-facing input error for a missing source file.
var ErrNoInput = errors.New("no source file selected")

// ownerState bundles one workflow owner: its run controller and its
// exclusively owned recognition session cache.
type ownerState struct {
	ctl      *run.Controller
	sessions *transcribe.SessionCache
}

// Pipeline sequences model acquisition, audio extraction, recognition,
// and subtitle materialization for the two workflow owners.
type Pipeline struct {
	cfg        *config.Config
	logger     *logging.Logger
	models     *model.Store
	transcoder *media.Transcoder
	prober     *media.Prober
	remote     transcribe.Engine

	audio *ownerState
	video *ownerState

	store  *subtitle.Store
	player Player

	transcript string
}

// New assembles a pipeline from its collaborators. When the config
// carries an OpenAI API key the remote engine replaces the local one.
func New(cfg *config.Config, logger *logging.Logger, models *model.Store, transcoder *media.Transcoder) (*Pipeline, error) {
	p := &Pipeline{
		cfg:        cfg,
		logger:     logger,
		models:     models,
		transcoder: transcoder,
		prober:     media.NewProber(tools.ResolveFFprobe(cfg.Tools.FFprobe)),
		audio:      &ownerState{ctl: run.NewController("audio", logger)},
		video:      &ownerState{ctl: run.NewController("video", logger)},
		store:      subtitle.NewStore(),
	}

	if cfg.OpenAI.APIKey != "" {
		remote, err := transcribe.NewOpenAIEngine(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
		if err != nil {
			return nil, err
		}
		p.remote = remote
	}

	return p, nil
}

// SetPlayer attaches the playback collaborator.
func (p *Pipeline) SetPlayer(player Player) {
	p.player = player
}

// Store exposes the segment collection.
func (p *Pipeline) Store() *subtitle.Store {
	return p.store
}

// Transcript returns the text of the last successful audio transcription.
func (p *Pipeline) Transcript() string {
	return p.transcript
}

// TranscribeAudio runs the audio workflow: extract a silence-trimmed
// waveform and produce the full transcript text. Returns started=false
// when the audio owner is already busy.
func (p *Pipeline) TranscribeAudio(ctx context.Context, inputPath, language string) (status run.Status, started bool) {
	return p.audio.ctl.Run(ctx, func(ctx context.Context) error {
		segments, err := p.recognize(ctx, p.audio, inputPath, language, true)
		if err != nil {
			return err
		}

		texts := make([]string, 0, len(segments))
		for _, seg := range segments {
			texts = append(texts, seg.Text)
		}
		p.transcript = strings.Join(texts, "\n")

		p.logger.Infow("transcription complete",
			"input", inputPath,
			"segments", len(segments),
		)
		return nil
	})
}

// GenerateSubtitles runs the video workflow: extract the waveform without
// silence trimming (timing must match the video track), recognize, and
// repopulate the segment store. Returns started=false when the video
// owner is already busy.
func (p *Pipeline) GenerateSubtitles(ctx context.Context, inputPath, language string) (status run.Status, started bool) {
	return p.video.ctl.Run(ctx, func(ctx context.Context) error {
		segments, err := p.recognize(ctx, p.video, inputPath, language, false)
		if err != nil {
			return err
		}

		p.store.Replace(segments)

		p.logger.Infow("subtitles generated",
			"input", inputPath,
			"segments", len(segments),
		)
		return nil
	})
}

// recognize is the shared pipeline body: ensure engine, extract waveform,
// stream segments through the loop guard.
func (p *Pipeline) recognize(ctx context.Context, owner *ownerState, inputPath, language string, removeSilence bool) ([]subtitle.Segment, error) {
	if strings.TrimSpace(inputPath) == "" {
		return nil, ErrNoInput
	}

	// Best-effort: a probe failure must not block recognition, ffmpeg
	// reports the real problem if the input is unreadable.
	if duration, err := p.prober.Duration(inputPath); err == nil {
		p.logger.Infow("input probed",
			"input", inputPath,
			"duration", duration,
		)
	} else {
		p.logger.Debugw("duration probe failed",
			"input", inputPath,
			"error", err,
		)
	}

	engine, err := p.engineFor(ctx, owner)
	if err != nil {
		return nil, err
	}

	wavPath, err := p.transcoder.Extract(ctx, inputPath, removeSilence)
	if err != nil {
		return nil, err
	}
	defer os.Remove(wavPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := language
	if lang == "" {
		lang = p.cfg.Language
	}

	stream, err := engine.Transcribe(ctx, wavPath, lang)
	if err != nil {
		return nil, err
	}

	raw, err := transcribe.DrainGuarded(ctx, stream, p.logger)
	if err != nil {
		return nil, err
	}

	segments := make([]subtitle.Segment, 0, len(raw))
	for _, seg := range raw {
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return segments, nil
}

// engineFor returns the recognition engine for one owner, ensuring the
// configured model is cached and the owner's session matches its path.
func (p *Pipeline) engineFor(ctx context.Context, owner *ownerState) (transcribe.Engine, error) {
	if p.remote != nil {
		return p.remote, nil
	}

	id, err := p.cfg.Identity()
	if err != nil {
		return nil, err
	}

	modelPath, err := p.models.Ensure(ctx, id)
	if err != nil {
		return nil, err
	}

	if owner.sessions == nil {
		binPath, err := tools.ResolveWhisper(p.cfg.Tools.Whisper)
		if err != nil {
			return nil, err
		}
		owner.sessions = transcribe.NewSessionCache(binPath, p.logger)
	}

	return owner.sessions.Get(modelPath)
}

// CancelAudio requests cancellation of the audio workflow.
func (p *Pipeline) CancelAudio() { p.audio.ctl.Cancel() }

// CancelVideo requests cancellation of the video workflow.
func (p *Pipeline) CancelVideo() { p.video.ctl.Cancel() }

// LoadSubtitles clears the store and repopulates it from a subtitle file.
func (p *Pipeline) LoadSubtitles(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no subtitle file selected")
	}

	segments, format, err := subtitle.Open(path)
	if err != nil {
		return err
	}

	p.store.Replace(segments)
	p.logger.Infow("subtitles loaded",
		"path", path,
		"format", format,
		"segments", len(segments),
	)
	return nil
}

// SaveSubtitles writes the current segment collection to path.
func (p *Pipeline) SaveSubtitles(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no output path selected")
	}
	if p.store.Len() == 0 {
		return fmt.Errorf("no subtitles to save")
	}
	return subtitle.Save(path, p.store.Segments())
}

// NudgeSteps are the supported manual time-shift deltas.
var NudgeSteps = []time.Duration{
	-500 * time.Millisecond,
	-100 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
}

// NudgeSelected shifts the selected segment by delta, one of NudgeSteps.
// Without a selection it is a no-op.
func (p *Pipeline) NudgeSelected(delta time.Duration) error {
	supported := false
	for _, step := range NudgeSteps {
		if delta == step {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported nudge step: %s", delta)
	}

	p.store.NudgeSelected(delta)
	return nil
}

// OnPosition reacts to a playback position update by recomputing the
// active segment.
func (p *Pipeline) OnPosition(position time.Duration) (subtitle.Segment, int, bool) {
	return p.store.ActiveAt(position)
}

// TogglePlayback asks the playback collaborator to switch between play
// and pause.
func (p *Pipeline) TogglePlayback() error {
	if p.player == nil {
		return fmt.Errorf("no player attached")
	}
	return p.player.Toggle()
}

// SeekToSegment asks the playback collaborator to jump to the start of
// segment i.
func (p *Pipeline) SeekToSegment(i int) error {
	if p.player == nil {
		return fmt.Errorf("no player attached")
	}
	seg, ok := p.store.Segment(i)
	if !ok {
		return fmt.Errorf("no segment at index %d", i)
	}
	return p.player.Seek(seg.Start)
}

// Permissions reports which operations are currently allowed, from the
// owners' idle state plus data preconditions.
type Permissions struct {
	Transcribe bool
	Generate   bool
	Save       bool
	Nudge      bool
}

// Permissions re-evaluates the allowed operations.
func (p *Pipeline) Permissions() Permissions {
	audioIdle := !p.audio.ctl.Busy()
	videoIdle := !p.video.ctl.Busy()
	_, selected := p.store.Selected()

	return Permissions{
		Transcribe: audioIdle,
		Generate:   videoIdle,
		Save:       videoIdle && p.store.Len() > 0,
		Nudge:      videoIdle && selected,
	}
}
