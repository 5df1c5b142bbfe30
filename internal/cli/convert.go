package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"subgen/internal/subtitle"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input_file] [output_file]",
	Short: "Convert a subtitle file between SRT and WebVTT",
	Long: `Convert a subtitle file; formats are inferred from the file
extensions. Cue times survive the conversion exactly.

Examples:
  subgen convert movie.srt movie.vtt
  subgen convert captions.vtt captions.srt`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	segments, format, err := subtitle.Open(inputPath)
	if err != nil {
		return err
	}

	if err := subtitle.Save(outputPath, segments); err != nil {
		return err
	}

	logger.Debugw("subtitles converted",
		"from", format,
		"segments", len(segments),
	)
	fmt.Printf("Converted %d entries: %s -> %s\n", len(segments), inputPath, outputPath)
	return nil
}
