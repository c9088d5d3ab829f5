// Package cli implements the wavetower command-line interface.
//
// The CLI is built using cobra and logs with charmbracelet/log. Terminal
// output is styled with lipgloss.
//
// # Commands
//
// The main commands are:
//   - render: Render WaveJSON documents to SVG, PNG, PDF or a JSON layout
//   - nodes: Print the node graph of a document as Graphviz DOT
//   - serve: Run the HTTP render service
//   - pick: Choose a document interactively and render it
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/wavetower/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the logger shared by every wavetower command. Stage
// timings and dropped edges are logged at debug level, so -v shows them.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times the rendering of one document. Each render goroutine owns
// its own progress.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed milliseconds, for example
// "Wrote 2 artifact(s) for bus.json (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches the command logger; the root command's pre-run hook
// calls it so render and serve goroutines can log per file.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
