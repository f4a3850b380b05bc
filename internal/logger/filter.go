// internal/logger/filter.go
//
// Filter-expression grammar for log levels.
//
// Context
// -------
// The `logging.filter` config field carries a default severity plus
// optional per-scope overrides, comma separated:
//
//	"info"                       – everything at info and above
//	"warn,webhook=debug"         – warn globally, debug for the webhook scope
//	"error,config=info,db=warn"  – several scopes
//
// Scopes are zap logger names (zap.L().Named("webhook")).  An invalid
// expression is a deployment mistake, so the parser reports it as a
// Config-kind error and install aborts.

package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/vuhn/zalokit/internal/apperr"
)

// filter is the parsed form of a filter expression.
type filter struct {
	def    zapcore.Level
	scopes map[string]zapcore.Level
}

// parseFilter parses a filter expression.  The empty expression, a bad
// level name, or an empty scope name all fail with a Config error that
// quotes the original expression.
func parseFilter(expr string) (filter, error) {
	f := filter{def: zapcore.InfoLevel, scopes: map[string]zapcore.Level{}}

	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return filter{}, apperr.Newf(apperr.Config, "invalid logging filter %q: empty expression", expr)
	}

	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return filter{}, apperr.Newf(apperr.Config, "invalid logging filter %q: empty directive", expr)
		}

		scope, levelName, scoped := strings.Cut(part, "=")
		if !scoped {
			lvl, err := zapcore.ParseLevel(part)
			if err != nil {
				return filter{}, apperr.Newf(apperr.Config, "invalid logging filter %q: unknown level %q", expr, part)
			}
			f.def = lvl
			continue
		}

		scope = strings.TrimSpace(scope)
		if scope == "" {
			return filter{}, apperr.Newf(apperr.Config, "invalid logging filter %q: empty scope", expr)
		}
		levelName = strings.TrimSpace(levelName)
		if levelName == "" {
			// zapcore.ParseLevel("") would default to info; an absent
			// level after "=" is a syntax error, not a default.
			return filter{}, apperr.Newf(apperr.Config, "invalid logging filter %q: missing level for scope %q", expr, scope)
		}
		lvl, err := zapcore.ParseLevel(levelName)
		if err != nil {
			return filter{}, apperr.Newf(apperr.Config, "invalid logging filter %q: unknown level %q for scope %q", expr, levelName, scope)
		}
		f.scopes[scope] = lvl
	}

	return f, nil
}

// threshold returns the level that applies to the given logger name.
func (f filter) threshold(name string) zapcore.Level {
	if lvl, ok := f.scopes[name]; ok {
		return lvl
	}
	return f.def
}

//
// scoped core
//

// scopedCore gates entries by logger name before handing them to the
// wrapped core.  The wrapped core is built wide open (debug); this
// wrapper is the only level gate.
type scopedCore struct {
	zapcore.Core
	f filter
}

func newScopedCore(inner zapcore.Core, f filter) zapcore.Core {
	return &scopedCore{Core: inner, f: f}
}

func (c *scopedCore) With(fields []zapcore.Field) zapcore.Core {
	return &scopedCore{Core: c.Core.With(fields), f: c.f}
}

// Enabled is the cheap pre-check zap runs before building an entry.  It
// must stay permissive when any scope could accept the level.
func (c *scopedCore) Enabled(lvl zapcore.Level) bool {
	if lvl >= c.f.def {
		return true
	}
	for _, s := range c.f.scopes {
		if lvl >= s {
			return true
		}
	}
	return false
}

func (c *scopedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < c.f.threshold(ent.LoggerName) {
		return ce
	}
	return ce.AddCore(ent, c)
}
