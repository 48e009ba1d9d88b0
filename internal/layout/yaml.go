package layout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/state"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigDirName = "winadmin"
	defaultLayoutFile    = "layouts.yaml"
)

// DefaultPath returns the layout file location:
//
//	$XDG_CONFIG_HOME/winadmin/layouts.yaml, else ~/.config/winadmin/layouts.yaml
func DefaultPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, defaultConfigDirName, defaultLayoutFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", defaultConfigDirName, defaultLayoutFile), nil
}

// YAMLFile persists every section's layout in one YAML document keyed by
// section name.
type YAMLFile struct {
	path string
	mu   sync.Mutex
}

func NewYAMLFile(path string) (*YAMLFile, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &YAMLFile{path: path}, nil
}

func (f *YAMLFile) Name() string { return "yaml:" + f.path }

func (f *YAMLFile) Close() error { return nil }

// Load reads the file. A missing file yields no layouts and no error.
func (f *YAMLFile) Load(ctx context.Context) (map[state.Section][]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := f.readLocked()
	if err != nil {
		return nil, err
	}
	out := make(map[state.Section][]Entry, len(raw))
	for name, entries := range raw {
		sec, err := state.ParseSection(name)
		if err != nil {
			logging.Error(fmt.Errorf("layout file %s: %w", f.path, err))
			continue
		}
		out[sec] = entries
	}
	return out, nil
}

// Save rewrites the file with the section replaced, keeping other sections.
func (f *YAMLFile) Save(ctx context.Context, sec state.Section, entries []Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := f.readLocked()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	raw[sec.String()] = entries

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create layout dir %s: %w", dir, err)
	}
	payload, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode layouts: %w", err)
	}
	tmp := f.path + fmt.Sprintf(".tmp-%d-%d", os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write temp layout %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename to %s: %w", f.path, err)
	}
	return nil
}

func (f *YAMLFile) readLocked() (map[string][]Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string][]Entry{}, nil
		}
		return nil, fmt.Errorf("read layouts %s: %w", f.path, err)
	}
	raw := map[string][]Entry{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse layouts %s: %w", f.path, err)
	}
	return raw, nil
}
