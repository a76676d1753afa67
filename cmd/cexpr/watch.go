package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/raymyers/cexpr/pkg/config"
	"github.com/tliron/commonlog"
)

// fileWatcher reports changes to a fixed set of files. It watches their
// directories since editors often replace a file instead of writing it.
type fileWatcher struct {
	w     *fsnotify.Watcher
	files map[string]string // cleaned path -> name as given
}

func newFileWatcher(filenames []string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &fileWatcher{w: w, files: make(map[string]string)}
	dirs := make(map[string]bool)
	for _, name := range filenames {
		path := filepath.Clean(name)
		fw.files[path] = name
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// run calls changed with the name of each watched file that is written or
// created, until ctx is done
func (fw *fileWatcher) run(ctx context.Context, changed func(name string)) error {
	log := commonlog.GetLogger("cexpr.watch")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name, ok := fw.files[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			log.Debugf("%s: %s", ev.Op, name)
			changed(name)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (fw *fileWatcher) Close() error {
	return fw.w.Close()
}

// watchInputs re-parses each file whenever it changes, until ctx is done
func watchInputs(ctx context.Context, filenames []string, cfg config.Config, out, errOut io.Writer) error {
	if len(filenames) == 0 {
		fmt.Fprintf(errOut, "cexpr: --watch needs at least one file\n")
		return fmt.Errorf("nothing to watch")
	}
	fw, err := newFileWatcher(filenames)
	if err != nil {
		fmt.Fprintf(errOut, "cexpr: %v\n", err)
		return err
	}
	defer fw.Close()

	commonlog.GetLogger("cexpr.watch").Infof("watching %d files", len(filenames))
	return fw.run(ctx, func(name string) {
		fmt.Fprintf(out, "// %s changed\n", name)
		// Diagnostics are already written; keep watching
		processInputs(ctx, []input{{name: name}}, cfg, out, errOut)
	})
}
