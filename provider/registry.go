// Package provider resolves named LLM provider configurations.
//
// Providers are declared in JSON settings files merged in order (user-level
// first, then project-level), the same way the assistant loads the rest of
// its settings. A missing or misconfigured provider surfaces as a task-level
// failure in the orchestration core, never as a crash.
package provider

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes one named provider.
type Config struct {
	Name            string `json:"name"`
	Model           string `json:"model"`
	BaseURL         string `json:"baseURL,omitempty"`
	APIKeyEnv       string `json:"apiKeyEnv,omitempty"`
	MaxOutputTokens int    `json:"maxOutputTokens,omitempty"`
}

// Settings is the on-disk shape of provider configuration.
type Settings struct {
	DefaultProvider string   `json:"defaultProvider,omitempty"`
	Providers       []Config `json:"providers,omitempty"`
}

// Registry maps provider names to configurations. It is concurrent-safe.
type Registry struct {
	mu       sync.RWMutex
	configs  map[string]Config
	fallback string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]Config)}
}

// NewRegistryFromSettings builds a Registry from loaded settings. The first
// provider becomes the default unless the settings name one explicitly.
func NewRegistryFromSettings(s *Settings) *Registry {
	r := NewRegistry()
	if s == nil {
		return r
	}
	for _, cfg := range s.Providers {
		r.Register(cfg)
	}
	if s.DefaultProvider != "" {
		r.SetDefault(s.DefaultProvider)
	}
	return r
}

// Register adds or replaces a provider configuration. The first registered
// provider becomes the default.
func (r *Registry) Register(cfg Config) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.configs) == 0 && r.fallback == "" {
		r.fallback = name
	}
	r.configs[name] = cfg
}

// SetDefault names the provider used when a task does not specify one.
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = strings.TrimSpace(name)
}

// Default returns the name of the default provider, if any.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Resolve returns the configuration for name. An empty name resolves to the
// process-wide default. The second return is false when no such provider is
// configured.
func (r *Registry) Resolve(name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = r.fallback
	}
	cfg, ok := r.configs[name]
	return cfg, ok
}

// LoadSettings merges provider settings from multiple JSON file paths.
// Later paths override earlier ones. Missing or invalid files are skipped.
func LoadSettings(paths ...string) (*Settings, error) {
	merged := &Settings{}

	for _, path := range paths {
		s, err := loadSettingsFile(path)
		if err != nil {
			continue
		}
		mergeSettings(merged, s)
	}

	return merged, nil
}

// DefaultSettingsPaths returns the standard settings file search paths.
func DefaultSettingsPaths(projectDir string) []string {
	home, _ := os.UserHomeDir()
	var paths []string

	if home != "" {
		paths = append(paths, filepath.Join(home, ".aish", "settings.json"))
	}
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".aish", "settings.json"))
	}

	return paths
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func mergeSettings(dst, src *Settings) {
	if src.DefaultProvider != "" {
		dst.DefaultProvider = src.DefaultProvider
	}
	for _, cfg := range src.Providers {
		replaced := false
		for i, existing := range dst.Providers {
			if existing.Name == cfg.Name {
				dst.Providers[i] = cfg
				replaced = true
				break
			}
		}
		if !replaced {
			dst.Providers = append(dst.Providers, cfg)
		}
	}
}
