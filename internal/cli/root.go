package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Called by
// the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the onnxspect CLI and returns an error if any command fails.
//
// The root command wires up all subcommands, loads the optional display
// config, and configures logging from the --verbose flag. The logger is
// attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	cfg := loadConfig()

	root := &cobra.Command{
		Use:          "onnxspect",
		Short:        "onnxspect inspects ONNX models and edits their metadata",
		Long:         `onnxspect is a CLI tool for inspecting ONNX model files (operators, shapes, parameter counts) and for exporting, editing, and re-importing their custom metadata.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfg.NoColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			if configLoadError != nil {
				logger.Debug("ignoring unreadable config file", "err", configLoadError)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("onnxspect %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newInfoCmd(cfg))
	root.AddCommand(newListCmd(cfg))
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd(cfg))
	root.AddCommand(newTreeCmd(cfg))

	return root.ExecuteContext(ctx)
}
