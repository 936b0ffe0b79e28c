// ABOUTME: Asset provider implementations
// ABOUTME: Resolves sound names to lump files or in-memory blobs
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when no asset matches a name
var ErrNotFound = errors.New("sound asset not found")

// Extensions are tried in order after the bare name
var Extensions = []string{".lmp", ".wav", ".flac", ".mp3"}

// Dir serves sound lumps from files under a root directory
type Dir struct {
	root string
}

// NewDir creates a provider rooted at root
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory the provider reads from
func (d *Dir) Root() string {
	return d.root
}

// FetchRawSamples reads the first file matching name
func (d *Dir) FetchRawSamples(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	candidates := []string{name}
	for _, ext := range Extensions {
		candidates = append(candidates, name+ext)
	}

	for _, candidate := range candidates {
		path := filepath.Join(d.root, candidate)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, d.root)
}

// List returns the sound names available in the directory, sorted
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.root, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, known := range Extensions {
			if ext == known {
				name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
				break
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// Memory serves sound lumps from a map
type Memory struct {
	mu    sync.RWMutex
	lumps map[string][]byte
}

// NewMemory creates an empty in-memory provider
func NewMemory() *Memory {
	return &Memory{lumps: make(map[string][]byte)}
}

// Add stores a lump under name
func (m *Memory) Add(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lumps[name] = data
}

// FetchRawSamples returns the lump stored under name
func (m *Memory) FetchRawSamples(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.lumps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// List returns the stored names, sorted
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.lumps))
	for name := range m.lumps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
