// internal/config/loader.go
//
// Configuration resolution engine.
//
// Context
// -------
// `Loader.Load()` builds one fully-populated `Config` value from three
// layers (highest precedence last):
//
//  1. Compiled-in defaults (`Defaults()`).
//  2. Optional config file, TOML by default, YAML by extension.
//  3. Environment variables prefixed with the loader's prefix, where
//     `__` maps to "." (e.g., `ZALO_BOT_LOGGING__FILTER → logging.filter`).
//
// The *choice* of file may itself come from the environment: when
// `{PREFIX}CONFIG_PATH` is set to a non-blank value it replaces the
// programmatic path before the existence check runs.  A blank value is
// treated as unset.  Whenever a path is in play the file must exist;
// a missing file is a hard Config error naming the exact path, never a
// silent fall-through to defaults.
//
// After merging, the tree is unmarshalled into the typed model and
// validated.  A decode or validation failure is a Config error distinct
// from "file missing".
//
// Notes
// -----
//   - Load is idempotent and side-effect free beyond reading the file
//     and the environment.  It installs nothing and logs nothing, so it
//     is safe to call before the logger exists.
//   - Unknown keys in the file or environment are ignored.

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"

	"github.com/vuhn/zalokit/internal/apperr"
)

// DefaultPrefix namespaces environment overrides for the stock Zalo bot
// deployment.  Callers embedding the toolkit pick their own prefix.
const DefaultPrefix = "ZALO_BOT_"

// configPathVar, appended to the prefix, names the env var that overrides
// the programmatic file path.
const configPathVar = "CONFIG_PATH"

/*─────────────────────────────── loader ───────────────────────────────────*/

// Loader describes one resolution source: an env-var prefix and an
// optional file path.  The zero value is unusable; construct with New.
// A Loader is immutable and may be resolved repeatedly.
type Loader struct {
	prefix   string
	filePath string
}

// New returns a loader that reads environment variables with the given
// prefix.  The prefix is used as-is; by convention it is uppercase and
// ends with an underscore.
func New(prefix string) Loader {
	return Loader{prefix: prefix}
}

// WithFile returns a copy of the loader that also merges the given file
// on top of the defaults.  The file must exist at Load time.
func (l Loader) WithFile(path string) Loader {
	l.filePath = path
	return l
}

// FilePath reports the programmatically configured file path, if any.
func (l Loader) FilePath() string { return l.filePath }

// Load resolves defaults, the optional file, and environment overrides
// into one validated Config.  All failures carry the Config kind.
func (l Loader) Load() (Config, error) {
	k := koanf.New(".")

	// Layer 1: compiled-in defaults.
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return Config{}, apperr.Wrap(apperr.Config, "failed to seed configuration defaults", err)
	}

	// Layer 2: optional file.  The env var wins over the programmatic
	// path; a blank env value falls back to the programmatic one.
	path := l.filePath
	if envPath := strings.TrimSpace(os.Getenv(l.prefix + configPathVar)); envPath != "" {
		path = envPath
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, apperr.Newf(apperr.Config, "configuration file not found at %s", path)
		}
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return Config{}, apperr.Wrap(apperr.Config, "failed to parse configuration file "+path, err)
		}
	}

	// Layer 3: env overrides, ZALO_BOT_LOGGING__FILTER → logging.filter.
	// The provider selects by prefix but hands the callback the full
	// variable name, so the prefix is stripped here.
	if err := k.Load(env.Provider(l.prefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, l.prefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		return Config{}, apperr.Wrap(apperr.Config, "failed to overlay environment variables", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, apperr.Wrap(apperr.Config, "failed to extract configuration", err)
	}
	if err := validateStruct(&cfg); err != nil {
		return Config{}, apperr.Wrap(apperr.Config, "invalid configuration", err)
	}
	return cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// defaultsMap flattens Defaults() into koanf path notation so the other
// layers override per-field, not wholesale.
func defaultsMap() map[string]any {
	d := Defaults()
	return map[string]any{
		"environment":    string(d.Environment),
		"logging.filter": d.Logging.Filter,
		"logging.format": string(d.Logging.Format),
		"logging.file":   d.Logging.File,
	}
}

// parserFor picks the file parser by extension.  TOML is the documented
// format; YAML is accepted for operators migrating existing files.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
