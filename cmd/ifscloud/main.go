// Command ifscloud generates 3D iterated-function-system point clouds and
// exports them as PLY, LAS/LAZ, OBJ or FBX.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/library"
)

var version = "dev"

// app carries root flags shared by subcommands.
type app struct {
	dataDir string
	verbose bool
}

func (a *app) store() (*library.Store, error) {
	s := library.New(a.dataDir)
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "ifscloud",
		Short:        "3D IFS fractal point clouds",
		Long:         "ifscloud plays the chaos game over a set of 3D affine maps and exports the resulting point cloud.",
		Version:      version + " (" + export.Generator + " " + export.Version + ")",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.PersistentFlags().StringVar(&a.dataDir, "data", ".ifscloud", "library directory")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		newGenerateCmd(a),
		newExportHDCmd(a),
		newAttractorCmd(),
		newEstimateCmd(a),
		newInspectCmd(),
		newNormalizeCmd(a),
		newPresetsCmd(),
		newStatsCmd(a),
		newViewCmd(a),
		newSaveCmd(a),
		newListCmd(a),
		newLoadCmd(a),
		newDeleteCmd(a),
		newBenchCmd(a),
		newWatchCmd(a),
		newServeCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
