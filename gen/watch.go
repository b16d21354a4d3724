// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDelay is the quiet period after which a burst of file events
// triggers one rebuild.
const DefaultWatchDelay = 100 * time.Millisecond

// WatchConfig configures [Watch].
type WatchConfig struct {
	Dir string
	// Delay coalesces bursts of events. Zero means [DefaultWatchDelay].
	Delay time.Duration
	// Ignore lists base names whose changes are ignored, typically the
	// generated output.
	Ignore []string
	Logger *slog.Logger
}

// Watch calls build once, then again whenever a Go source file of cfg.Dir is
// created, written, removed or renamed, until ctx is done. A failing build
// is logged and watching continues.
func Watch(ctx context.Context, cfg WatchConfig, build func(context.Context) error) error {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("gen: watch: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()
	if err := w.Add(cfg.Dir); err != nil {
		return fmt.Errorf("gen: watch %s: %w", cfg.Dir, err)
	}

	rebuild := func() {
		if err := build(ctx); err != nil {
			logger.Error("rebuild failed", "dir", cfg.Dir, "err", err)
		}
	}
	rebuild()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, cfg.Ignore) {
				continue
			}
			logger.Debug("source changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

func relevant(ev fsnotify.Event, ignore []string) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	return isSourceFile(filepath.Base(ev.Name), ignore)
}
