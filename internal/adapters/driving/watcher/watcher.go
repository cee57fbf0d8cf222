// Package watcher ingests text files dropped into an inbox directory.
// New .txt files are uploaded automatically and, when enabled,
// vectorized in the background.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/logger"
)

// settleDelay is how long a file must be quiet before it is ingested,
// so partially written files are not picked up mid-copy.
const settleDelay = 500 * time.Millisecond

// Watcher monitors an inbox directory and feeds files into the
// document pipeline.
type Watcher struct {
	documents     driving.DocumentService
	dir           string
	autoVectorize bool

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir. When autoVectorize is true, uploaded
// documents are vectorized immediately with default chunk parameters.
func New(documents driving.DocumentService, dir string, autoVectorize bool) *Watcher {
	return &Watcher{
		documents:     documents,
		dir:           dir,
		autoVectorize: autoVectorize,
		pending:       make(map[string]*time.Timer),
	}
}

// Run watches the inbox until the context is cancelled. Files already
// present at startup are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return fmt.Errorf("creating inbox directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("Watching inbox %s", w.dir)

	w.ingestExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestExisting processes files already sitting in the inbox.
func (w *Watcher) ingestExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Reading inbox: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// schedule queues a file for ingestion once writes settle. Repeated
// events for the same file reset the timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.ingest(ctx, path)
	})
}

// ingest uploads one file and removes it from the inbox on success.
func (w *Watcher) ingest(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	doc, err := w.documents.Upload(ctx, filepath.Base(path), content)
	if err != nil {
		logger.Warn("Uploading %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s as document %s", filepath.Base(path), doc.ID)

	if w.autoVectorize {
		result, err := w.documents.Vectorize(ctx, doc.ID, driving.VectorizeOptions{})
		if err != nil {
			logger.Warn("Vectorizing %s: %v", doc.ID, err)
		} else {
			logger.Info("Vectorized %s: %d chunks", doc.ID, result.ChunksCreated)
		}
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("Removing %s: %v", path, err)
	}
}
