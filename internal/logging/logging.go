package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// teeHandler writes each record to the console and, when configured, to Seq.
// Each sink applies its own level.
type teeHandler struct {
	console slog.Handler
	seq     slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || t.seq.Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if t.console.Enabled(ctx, r.Level) {
		errs = append(errs, t.console.Handle(ctx, r.Clone()))
	}
	if t.seq.Enabled(ctx, r.Level) {
		errs = append(errs, t.seq.Handle(ctx, r.Clone()))
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{console: t.console.WithAttrs(attrs), seq: t.seq.WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{console: t.console.WithGroup(name), seq: t.seq.WithGroup(name)}
}

// Setup builds a text logger on w at the given level. When seqURL is set,
// records are also shipped to that Seq server tagged app=metamon. The returned
// function flushes and closes the Seq sink; it is safe to call when none was configured.
func Setup(w io.Writer, level slog.Level, seqURL string) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: level}
	console := slog.NewTextHandler(w, opts)
	if seqURL == "" {
		return slog.New(console), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		seqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(opts),
	)
	if seqHandler == nil {
		return slog.New(console), func() {}
	}
	tee := teeHandler{
		console: console,
		seq:     seqHandler.WithAttrs([]slog.Attr{slog.String("app", "metamon")}),
	}
	return slog.New(tee), func() { seqHandler.Close() }
}
