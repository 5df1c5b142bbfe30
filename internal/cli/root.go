package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"subgen/internal/config"
	"subgen/internal/logging"
	"subgen/internal/media"
	"subgen/internal/model"
	"subgen/internal/pipeline"
	"subgen/internal/tools"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "subgen",
	Short: "Offline subtitle generator and transcriber for audio and video",
	Long: `Subgen transcribes audio and video files with a local whisper.cpp
model and writes time-aligned SRT or WebVTT subtitles.

Models are downloaded on first use and cached. An OpenAI API key in the
config switches transcription to the remote Audio API.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr) or \"auto\"")
}

// newModelStore builds the model store over the configured cache dir.
func newModelStore() *model.Store {
	return model.NewStore(cfg.ModelsDir(), model.NewHTTPProvider(), logger.Named("models"))
}

// newPipeline wires the full transcription pipeline from the config.
func newPipeline() (*pipeline.Pipeline, error) {
	ffmpegPath, err := tools.ResolveFFmpeg(cfg.Tools.FFmpeg)
	if err != nil {
		return nil, err
	}

	transcoder := media.NewTranscoder(ffmpegPath, logger.Named("media"))
	return pipeline.New(cfg, logger.Named("pipeline"), newModelStore(), transcoder)
}
