package services

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStorageDir   = "storage.directory"
	keyEditor       = "editor.command"
	keyTypstQuery   = "typst.query"
	keyTypstCompile = "typst.compile"
	keyProcessors   = "label.processors"
	keyExcludeNote  = "bib.exclude_note"
	keyParallel     = "bib.parallel"
)

// settingKeys lists every known key in display order.
var settingKeys = []string{
	keyStorageDir, keyEditor, keyTypstQuery, keyTypstCompile,
	keyProcessors, keyExcludeNote, keyParallel,
}

var knownProcessors = []string{
	domain.ProcessorLigatures,
	domain.ProcessorMentions,
	domain.ProcessorSentences,
	domain.ProcessorBlankLines,
	domain.ProcessorAutoLabel,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	homeDir     func() (string, error)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		homeDir:     os.UserHomeDir,
	}
}

// Get retrieves current application settings.
// Missing keys and values of the wrong type fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	storageDir, err := s.expandHome(s.getString(keyStorageDir, defaults.StorageDir))
	if err != nil {
		return nil, err
	}

	settings := &domain.AppSettings{
		StorageDir:   storageDir,
		Editor:       domain.CommandTemplate(s.getString(keyEditor, string(defaults.Editor))),
		TypstQuery:   domain.CommandTemplate(s.getString(keyTypstQuery, string(defaults.TypstQuery))),
		TypstCompile: domain.CommandTemplate(s.getString(keyTypstCompile, string(defaults.TypstCompile))),
		Label: domain.LabelSettings{
			Processors: s.getProcessors(defaults.Label.Processors),
		},
		Bibliography: domain.BibliographySettings{
			ExcludeNote: s.getBool(keyExcludeNote, defaults.Bibliography.ExcludeNote),
			Parallel:    s.getInt(keyParallel, defaults.Bibliography.Parallel),
		},
	}

	return settings, nil
}

// Set validates value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyStorageDir:
		if value == "" {
			return fmt.Errorf("%s must not be empty: %w", key, domain.ErrInvalidInput)
		}
		return s.save(key, value)

	case keyEditor, keyTypstQuery, keyTypstCompile:
		if len(strings.Fields(value)) == 0 {
			return fmt.Errorf("%s must not be empty: %w", key, domain.ErrInvalidInput)
		}
		return s.save(key, value)

	case keyProcessors:
		names := splitList(value)
		for _, name := range names {
			if !slices.Contains(knownProcessors, name) {
				return fmt.Errorf("unknown processor %q (known: %s): %w",
					name, strings.Join(knownProcessors, ", "), domain.ErrInvalidInput)
			}
		}
		return s.save(key, names)

	case keyExcludeNote:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, domain.ErrInvalidInput)
		}
		return s.save(key, b)

	case keyParallel:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s expects a positive integer: %w", key, domain.ErrInvalidInput)
		}
		return s.save(key, n)

	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

// Entries returns every known setting with its effective and default value.
func (s *SettingsService) Entries() ([]driving.SettingEntry, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}
	values := settingValues(*current)
	defaults := settingValues(domain.DefaultAppSettings())

	entries := make([]driving.SettingEntry, 0, len(settingKeys))
	for _, key := range settingKeys {
		entries = append(entries, driving.SettingEntry{
			Key:     key,
			Value:   values[key],
			Default: defaults[key],
		})
	}
	return entries, nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) save(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func settingValues(a domain.AppSettings) map[string]string {
	return map[string]string{
		keyStorageDir:   a.StorageDir,
		keyEditor:       string(a.Editor),
		keyTypstQuery:   string(a.TypstQuery),
		keyTypstCompile: string(a.TypstCompile),
		keyProcessors:   strings.Join(a.Label.Processors, ","),
		keyExcludeNote:  strconv.FormatBool(a.Bibliography.ExcludeNote),
		keyParallel:     strconv.Itoa(a.Bibliography.Parallel),
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func (s *SettingsService) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := s.homeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := strings.TrimSpace(s.configStore.GetString(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	b, ok := val.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getProcessors(defaultVal []string) []string {
	if _, exists := s.configStore.Get(keyProcessors); !exists {
		return defaultVal
	}
	names := s.configStore.GetStringSlice(keyProcessors)
	if names == nil {
		return defaultVal
	}
	for _, name := range names {
		if !slices.Contains(knownProcessors, name) {
			return defaultVal
		}
	}
	return names
}
