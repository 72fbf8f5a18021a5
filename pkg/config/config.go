package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/zyxir/dotinstall/pkg/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DOTINSTALL_"

// Settings is the typed view of the layered configuration
type Settings struct {
	Repository RepositorySettings `koanf:"repository" toml:"repository"`
	Switch     SwitchSettings     `koanf:"switch" toml:"switch"`
	Fonts      FontSettings       `koanf:"fonts" toml:"fonts"`
	AutoHotkey AutoHotkeySettings `koanf:"autohotkey" toml:"autohotkey"`
	Rime       RimeSettings       `koanf:"rime" toml:"rime"`
}

// RepositorySettings identifies the dotfiles repository root
type RepositorySettings struct {
	Marker     string `koanf:"marker" toml:"marker"`
	MarkerLine string `koanf:"marker_line" toml:"marker_line"`
}

// SwitchSettings configures the environment rebuild command
type SwitchSettings struct {
	Command string `koanf:"command" toml:"command"`
}

// FontSettings configures font discovery and installation
type FontSettings struct {
	Directories  []string `koanf:"directories" toml:"directories"`
	Archives     []string `koanf:"archives" toml:"archives"`
	Extensions   []string `koanf:"extensions" toml:"extensions"`
	CacheCommand string   `koanf:"cache_command" toml:"cache_command"`
}

// AutoHotkeySettings configures script compilation on Windows
type AutoHotkeySettings struct {
	Directory  string `koanf:"directory" toml:"directory"`
	Compiler   string `koanf:"compiler" toml:"compiler"`
	StartupDir string `koanf:"startup_dir" toml:"startup_dir"`
}

// RimeSettings configures the generated Rime patch
type RimeSettings struct {
	PatchPath string `koanf:"patch_path" toml:"patch_path"`
}

// listKeys are split on the OS path-list separator when set from the environment
var listKeys = map[string]bool{
	"fonts.directories": true,
	"fonts.archives":    true,
	"fonts.extensions":  true,
}

// Load builds Settings from the embedded defaults, the environment and overrides.
// Override keys use dotted paths such as "repository.marker_line".
func Load(overrides map[string]interface{}) (*Settings, error) {
	k, err := newKoanf(overrides)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to decode settings")
	}
	return &s, nil
}

// Default returns the embedded defaults without environment or overrides
func Default() *Settings {
	k := koanf.New(".")
	var s Settings
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	if err := k.Unmarshal("", &s); err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	return &s
}

func newKoanf(overrides map[string]interface{}) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Load embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load environment overrides
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 3. Load explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, nil
}

// envKey maps DOTINSTALL_FONTS_CACHE_COMMAND to fonts.cache_command.
// Only the first underscore separates the section from the key.
func envKey(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)
	if listKeys[key] {
		return key, strings.Split(value, string(os.PathListSeparator))
	}
	return key, value
}

// ParseOverrides turns "section.key=value" pairs into an override map
func ParseOverrides(pairs []string) (map[string]interface{}, error) {
	overrides := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid setting %q, expected key=value", pair)
		}
		if listKeys[key] {
			overrides[key] = strings.Split(value, string(os.PathListSeparator))
			continue
		}
		overrides[key] = value
	}
	return overrides, nil
}
