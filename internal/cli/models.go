package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"subgen/internal/model"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage recognition models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known model kinds and their cache state",
	RunE:  runModelsList,
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull [kind]",
	Short: "Download a model into the cache",
	Long: `Download the given model kind into the local cache. Without an
argument the configured model is fetched. Pulling an already cached
model is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModelsPull,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsPullCmd)

	modelsPullCmd.Flags().
		StringP("quantization", "q", "", "Quantization variant (f16, q4_0, q4_1, q5_0, q5_1, q8_0)")
}

func runModelsList(cmd *cobra.Command, args []string) error {
	store := newModelStore()

	quant := model.Quantization(cfg.Model.Quantization)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"KIND", "SIZE", "CACHED", "DESCRIPTION"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	for _, entry := range model.Catalog() {
		id := model.Identity{Kind: entry.Kind, Quantization: quant}
		cached := ""
		if store.Cached(id) {
			cached = "yes"
		}
		tw.AppendRow(table.Row{string(entry.Kind), entry.SizeLabel, cached, entry.Description})
	}

	tw.Render()
	fmt.Printf("Cache directory: %s (quantization %s)\n", cfg.ModelsDir(), quant)
	return nil
}

func runModelsPull(cmd *cobra.Command, args []string) error {
	kind := cfg.Model.Kind
	if len(args) == 1 {
		kind = args[0]
	}
	quant, _ := cmd.Flags().GetString("quantization")
	if quant == "" {
		quant = cfg.Model.Quantization
	}

	id, err := model.ParseIdentity(kind, quant)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := newModelStore().Ensure(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Model %s available at %s\n", id, path)
	return nil
}
