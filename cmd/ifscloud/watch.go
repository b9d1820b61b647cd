package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/export"
)

// watchFile runs fn now and again after each change to path until ctx
// ends. Events closer together than settle collapse into one run. A failing
// run is logged and watching continues.
func watchFile(ctx context.Context, path string, settle time.Duration, logger *log.Logger, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// editors often save by replacing the file, so watch its directory
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	name := filepath.Base(path)

	run := func() {
		if err := fn(); err != nil {
			logger.Error("rebuild failed", "err", err)
		}
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("change", "file", ev.Name, "op", ev.Op)
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		out    exportFlags
		dest   string
		settle time.Duration
	)
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "re-export whenever a document file changes",
		Example: "  ifscloud watch -c fern.yaml -f ply --encoding binary -o fern.ply",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Info("watching", "file", in.file, "output", dest)
			return watchFile(cmd.Context(), in.file, settle, logger, func() error {
				doc, label, err := in.load(cmd, a)
				if err != nil {
					return err
				}
				opts, err := out.options(cmd, doc)
				if err != nil {
					return err
				}
				cloud, err := generate(cmd.Context(), doc, label, false)
				if err != nil {
					return err
				}
				return report(cmd, export.ExportFile(dest, cloud, opts))
			})
		},
	}
	in.register(cmd)
	out.register(cmd, export.PLY)
	cmd.Flags().StringVarP(&dest, "output", "o", ".", "output file or directory")
	cmd.Flags().DurationVar(&settle, "settle", 200*time.Millisecond, "quiet period before rebuilding")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
