package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/wavetower/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// fileWatcher reports changes to a fixed set of files. It watches their
// directories rather than the files so that atomic saves (write to a
// temporary file, then rename) are seen.
type fileWatcher struct {
	w *fsnotify.Watcher
	// inputs maps the cleaned absolute path to the path as given.
	inputs map[string]string
}

// newFileWatcher starts watching the directories of inputs.
func newFileWatcher(inputs []string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	fw := &fileWatcher{w: w, inputs: make(map[string]string, len(inputs))}

	dirs := make(map[string]bool)
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", in, err)
		}
		fw.inputs[abs] = in
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return fw, nil
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.w.Close()
}

// run calls changed with the given path of every input that was written or
// recreated, until ctx is done.
func (fw *fileWatcher) run(ctx context.Context, changed func(input string)) error {
	logger := loggerFromContext(ctx)
	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			input, ok := fw.inputs[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("change detected", "file", input, "op", ev.Op.String())
			pending[input] = true
			timer.Reset(watchDebounce)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			for input := range pending {
				changed(input)
			}
			clear(pending)
		}
	}
}

// runWatch re-renders inputs as they change until ctx is cancelled.
func (c *CLI) runWatch(ctx context.Context, inputs []string, opts pipeline.Options, flags *renderFlags) error {
	fw, err := newFileWatcher(inputs)
	if err != nil {
		return err
	}
	defer fw.Close()

	runner := c.newRunner()
	batch := len(inputs) > 1
	printInfo("Watching %d file(s) for changes (ctrl+c to stop)", len(inputs))

	return fw.run(ctx, func(input string) {
		out, err := c.renderFile(ctx, runner, input, opts, outputBase(flags.output, input, batch), flags.validate)
		if err != nil {
			printError("%s: %v", input, err)
			return
		}
		printOutcome(out)
	})
}
