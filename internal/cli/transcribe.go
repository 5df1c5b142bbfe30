package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"subgen/internal/media"
	"subgen/internal/run"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Transcribe an audio or video file to plain text",
	Long: `Transcribe the specified media file and print the transcript.

Leading and trailing silence is trimmed before recognition, since the
transcript does not need to stay aligned to the source timeline.

Examples:
  subgen transcribe interview.mp3
  subgen transcribe talk.mp4 -l de -o talk.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", mediaPath)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	p, err := newPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("starting transcription",
		"input", mediaPath,
		"language", language,
	)

	status, started := p.TranscribeAudio(ctx, mediaPath, language)
	if !started {
		return fmt.Errorf("transcription already running")
	}

	switch status.Outcome {
	case run.OutcomeCanceled:
		fmt.Println("Transcription canceled.")
		return nil
	case run.OutcomeFailed:
		return fmt.Errorf("%s", status.Message)
	}

	transcript := p.Transcript()
	if outputPath == "" {
		fmt.Println(transcript)
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(transcript+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	fmt.Printf("Transcript written to %s\n", outputPath)
	return nil
}
