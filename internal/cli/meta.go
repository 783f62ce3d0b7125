package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"onnxspect/metadata"
	"onnxspect/onnx"
)

// newListCmd creates the list command: print a model's metadata entries.
func newListCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list [model.onnx]",
		Short: "List a model's custom metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := onnx.ReadFile(args[0])
			if err != nil {
				return err
			}
			meta := model.Graph.Metadata
			if len(meta) == 0 {
				fmt.Println("model has no custom metadata")
				return nil
			}
			name := model.Graph.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("Custom metadata of model %s (%d entries):\n",
				styleValue.Render(name), len(meta))
			for i, key := range slices.Sorted(maps.Keys(meta)) {
				fmt.Printf("  [%d] %s: %s\n", i+1,
					styleKey.Render(key),
					styleValue.Render(truncate(meta[key], cfg.TruncateValues)))
			}
			return nil
		},
	}
}

// newExportCmd creates the export command: write metadata to a
// tab-separated text file.
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [model.onnx] [metadata.txt]",
		Short: "Export a model's metadata to a tab-separated text file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], args[1])
		},
	}
}

func runExport(ctx context.Context, modelPath, outPath string) error {
	logger := loggerFromContext(ctx)

	model, err := onnx.ReadFile(modelPath)
	if err != nil {
		return err
	}
	rec, err := metadata.Export(model.Graph)
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		printWarning("model has no custom metadata; writing an empty file")
	}
	if err := os.WriteFile(outPath, []byte(metadata.FormatText(rec)), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write metadata file to %s", outPath)
	}
	logger.Debug("metadata exported", "entries", len(rec), "path", outPath)
	printSuccess("exported %d metadata entries to %s", len(rec), outPath)
	return nil
}

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	mode string // import policy: "merge" or "replace"
}

// newImportCmd creates the import command: apply an edited metadata file
// back onto a model and save the result.
func newImportCmd(cfg Config) *cobra.Command {
	opts := importOpts{mode: cfg.DefaultImportMode}

	cmd := &cobra.Command{
		Use:   "import [model.onnx] [metadata.txt] [out.onnx]",
		Short: "Import metadata from a text file into a model",
		Long: `Import reads a tab-separated metadata file and applies it to the model.

In merge mode (the default) incoming keys overwrite existing ones and keys
absent from the file are preserved. In replace mode the model's metadata
becomes exactly the file's content, deleting everything else.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", opts.mode, "import mode: merge or replace")

	return cmd
}

func runImport(ctx context.Context, modelPath, metaPath, outPath string, opts importOpts) error {
	logger := loggerFromContext(ctx)

	mode, err := metadata.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(metaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read metadata file in %s", metaPath)
	}
	rec, err := metadata.ParseText(string(text))
	if err != nil {
		return errors.WithMessagef(err, "while parsing %s", metaPath)
	}
	if len(rec) == 0 {
		printWarning("metadata file is empty")
	}

	model, err := onnx.ReadFile(modelPath)
	if err != nil {
		return err
	}

	existing := model.Graph.Metadata
	incoming := rec.Map()
	var updated, added, kept int
	for key := range incoming {
		if _, ok := existing[key]; ok {
			updated++
		} else {
			added++
		}
	}
	kept = len(existing) - updated
	originalCount := len(existing)

	if err := metadata.Import(model.Graph, rec, mode); err != nil {
		return err
	}
	if err := model.WriteFile(outPath); err != nil {
		return err
	}
	logger.Debug("metadata imported", "mode", mode, "entries", len(incoming))

	printSuccess("imported %d metadata entries into %s", len(incoming), outPath)
	if mode == metadata.ModeReplace {
		printDetail("replaced all %d previous entries", originalCount)
	} else {
		printDetail("updated %d, added %d, kept %d", updated, added, kept)
	}
	return nil
}
