// Package file provides a menu catalog source backed by a JSON file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// Ensure CatalogSource implements the interface.
var _ driven.CatalogSource = (*CatalogSource)(nil)

// debounceDelay coalesces bursts of write events from editors that save in
// multiple steps.
const debounceDelay = 500 * time.Millisecond

// CatalogSource loads menu items from a JSON file: one array of item
// records (id, name, category, price, description, ingredients, available).
type CatalogSource struct {
	path string
}

// NewCatalogSource creates a catalog source for the given file.
func NewCatalogSource(path string) *CatalogSource {
	return &CatalogSource{path: path}
}

// Load reads and decodes all menu items in file order. A missing or
// malformed file is an error: the engine cannot operate without a catalog.
func (s *CatalogSource) Load(_ context.Context) ([]domain.MenuItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading menu file: %w", err)
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing menu file %s: %w", s.path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: menu file %s has no items", domain.ErrCatalogEmpty, s.path)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: menu item %q has no id", domain.ErrInvalidInput, item.Name)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("%w: duplicate menu item id %q", domain.ErrInvalidInput, item.ID)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: menu item %q has negative price", domain.ErrInvalidInput, item.ID)
		}
		seen[item.ID] = true
	}

	return items, nil
}

// Watch invokes onChange whenever the menu file is written or replaced,
// until the context is cancelled. Events are debounced so an editor save
// triggers one reload.
func (s *CatalogSource) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Menu file changed: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Menu watcher error: %v", err)
		}
	}
}
