package main

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ifscloud/internal/chaos"
)

// newLogger writes timestamped records ("14:32:01.45") to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, kv ...any) {
	p.logger.Info(msg, append(kv, "took", time.Since(p.start).Round(time.Millisecond))...)
}

// report returns a chaos.Progress that logs each tick.
func (p *progress) report(what string) chaos.Progress {
	return func(done, total int) {
		pct := 100.0
		if total > 0 {
			pct = float64(done) / float64(total) * 100
		}
		p.logger.Info(what, "points", done, "of", total, "pct", int(pct))
	}
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default when no logger is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
