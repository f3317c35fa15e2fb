package contacts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Contact maps a board handle to a friendlier display name, stored as
// one YAML file per contact under ~/.patter/contacts/.
type Contact struct {
	Handle string `yaml:"handle"`
	Name   string `yaml:"name"`
}

var (
	cache      map[string]string
	cacheMutex sync.RWMutex
	cacheTime  time.Time

	cacheDuration = 30 * time.Second
)

// Dir returns the contacts directory (~/.patter/contacts).
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".patter", "contacts")
}

func contactFilePath(handle string) string {
	name := strings.TrimSpace(handle)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return filepath.Join(Dir(), name+".yml")
}

// Save writes a contact file and drops the lookup cache.
func Save(contact Contact) error {
	if contact.Handle == "" {
		return fmt.Errorf("contact handle cannot be empty")
	}

	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create contacts directory: %w", err)
	}

	data, err := yaml.Marshal(&contact)
	if err != nil {
		return fmt.Errorf("failed to marshal contact: %w", err)
	}
	if err := os.WriteFile(contactFilePath(contact.Handle), data, 0644); err != nil {
		return fmt.Errorf("failed to write contact file: %w", err)
	}

	cacheMutex.Lock()
	cache = nil
	cacheMutex.Unlock()
	return nil
}

// DisplayName returns the contact name for a handle, or the handle
// itself when no contact file exists.
func DisplayName(handle string) string {
	if handle == "" {
		return handle
	}

	cacheMutex.RLock()
	fresh := cache != nil && time.Since(cacheTime) < cacheDuration
	if fresh {
		name, ok := cache[handle]
		cacheMutex.RUnlock()
		if ok {
			return name
		}
		return handle
	}
	cacheMutex.RUnlock()

	lookup := loadAll()
	cacheMutex.Lock()
	cache = lookup
	cacheTime = time.Now()
	cacheMutex.Unlock()

	if name, ok := lookup[handle]; ok {
		return name
	}
	return handle
}

// All returns every saved contact, sorted by handle.
func All() []Contact {
	files, err := os.ReadDir(Dir())
	if err != nil {
		return nil
	}

	var out []Contact
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(Dir(), f.Name()))
		if err != nil {
			continue
		}
		var c Contact
		if err := yaml.Unmarshal(data, &c); err != nil || c.Handle == "" {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func loadAll() map[string]string {
	lookup := make(map[string]string)

	files, err := os.ReadDir(Dir())
	if err != nil {
		return lookup
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(Dir(), f.Name()))
		if err != nil {
			continue
		}
		var c Contact
		if err := yaml.Unmarshal(data, &c); err != nil {
			continue
		}
		if c.Handle != "" && c.Name != "" {
			lookup[c.Handle] = c.Name
		}
	}
	return lookup
}
