package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Parse decodes YAML over DefaultConfig, so omitted keys keep their defaults
// Unknown keys are rejected to surface typos in hand-edited files
func Parse(data []byte) (EngineConfig, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode engine config: %w", err)
	}
	return cfg, nil
}

// Load reads and parses a config file
func Load(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read engine config: %w", err)
	}
	return Parse(data)
}

// Marshal encodes cfg as YAML
func Marshal(cfg EngineConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// reloadDebounce coalesces the write bursts editors emit for a single save
const reloadDebounce = 50 * time.Millisecond

// Watch reloads path on change and passes each successfully parsed config to apply
// The parent directory is watched so atomic rename-on-save editors are picked up
// Parse failures go to onError and the previous config stays in effect
// Blocks until ctx is done or the watcher fails
func Watch(ctx context.Context, path string, apply func(EngineConfig), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounce = time.After(reloadDebounce)
			}

		case <-debounce:
			debounce = nil
			cfg, err := Load(abs)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			apply(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
