// internal/config/model.go
//
// Typed configuration model for the bot toolkit.
//
// Context
// -------
// These structs define the shape of the tree that `loader.go` builds from
// three overlay layers (lowest precedence first):
//
//   - compiled-in defaults (Defaults below),
//   - an optional TOML or YAML file,
//   - `{PREFIX}`-prefixed environment overrides, `__` mapping to nesting
//     (e.g., `ZALO_BOT_LOGGING__FILTER` → `logging.filter`).
//
// The model is always fully populated after Load: every field has a
// default, and unknown keys in any source are ignored rather than
// rejected.  Validation runs immediately after unmarshal so a process
// never boots with a value outside the documented enumerations.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`; Koanf ignores `toml`/`yaml` tags.
//   - Logging.File is an operator convenience and defaults to "" (log to
//     stdout only); the other fields mirror the public contract.

package config

//
// enumerations
//

// Environment names the deployment tier the service runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// String returns the canonical lowercase form used in files and env vars.
func (e Environment) String() string { return string(e) }

// LogFormat selects the log encoder.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

func (f LogFormat) String() string { return string(f) }

//
// Logging section
//

// Logging holds the logging subsystem settings.
//
// Filter follows a small grammar: a default severity plus optional
// per-scope overrides, e.g. "info" or "warn,webhook=debug".  Scopes are
// zap logger names.  The expression is parsed by internal/logger; an
// invalid expression is a Config error at install time.
type Logging struct {
	Filter string    `koanf:"filter" validate:"required"`
	Format LogFormat `koanf:"format" validate:"oneof=text json"`
	File   string    `koanf:"file"` // optional rotating log file
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Loader.Load.  Instances
// are plain values; callers may copy and share them freely.
type Config struct {
	Environment Environment `koanf:"environment" validate:"oneof=development staging production"`
	Logging     Logging     `koanf:"logging"`
}

// Defaults returns the compiled-in configuration: development tier,
// "info" filter, text logs, no log file.
func Defaults() Config {
	return Config{
		Environment: Development,
		Logging: Logging{
			Filter: "info",
			Format: FormatText,
		},
	}
}
