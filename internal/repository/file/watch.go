package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/garnizeh/folio/internal/codegen"
	"github.com/garnizeh/folio/pkg/models"
)

// Watch reports changes to generated files made outside this process (a git
// pull, a manual edit) by calling fn with the affected kind. It blocks until
// ctx is cancelled.
func (b *Backend) Watch(ctx context.Context, fn func(models.Kind)) error {
	byName := make(map[string]models.Kind, len(models.Kinds))
	for _, k := range models.Kinds {
		if f, err := codegen.FileFor(k); err == nil {
			byName[f.Name] = k
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(b.dir); err != nil {
		return fmt.Errorf("watch %s: %w", b.dir, err)
	}
	b.logger.Info("content watcher started", "dir", b.dir)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("content watcher stopping", "reason", "context cancelled")
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if kind, ok := byName[filepath.Base(event.Name)]; ok {
				b.logger.Debug("content file changed", "file", event.Name, "op", event.Op.String())
				fn(kind)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.logger.Error("fsnotify error", "error", err)
		}
	}
}
