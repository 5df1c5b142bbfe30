package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"subgen/internal/media"
	"subgen/internal/run"
	"subgen/internal/subtitle"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate subtitles for an audio or video file",
	Long: `Generate time-aligned subtitles for the specified media file.

The audio track is extracted without silence trimming so subtitle timing
matches the source. Output lands next to the input with the extension
replaced, unless --output is given.

Examples:
  subgen generate video.mp4
  subgen generate video.mkv --format vtt
  subgen generate talk.mp4 -l en -o talk.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	var format subtitle.Format
	switch strings.ToLower(formatStr) {
	case "srt":
		format = subtitle.FormatSRT
	case "vtt":
		format = subtitle.FormatVTT
	default:
		return fmt.Errorf("unsupported format %q: use srt or vtt", formatStr)
	}

	if outputPath == "" {
		outputPath = subtitle.OutputPath(mediaPath, format)
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"format", formatStr,
	)

	status, started := p.GenerateSubtitles(ctx, mediaPath, language)
	if !started {
		return fmt.Errorf("generation already running")
	}

	switch status.Outcome {
	case run.OutcomeCanceled:
		fmt.Println("Subtitle generation canceled.")
		return nil
	case run.OutcomeFailed:
		return fmt.Errorf("%s", status.Message)
	}

	if err := p.SaveSubtitles(outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", p.Store().Len())
	return nil
}
